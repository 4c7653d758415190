package camera

import "github.com/go-gl/mathgl/mgl32"

// RenderMode selects the pass sequence used to render a camera. The zero value renders
// nothing but the forward target setup.
type RenderMode int

const (
	RenderModeNone RenderMode = iota
	RenderModeForward
	RenderModeDeferred
	RenderModeSolid
	RenderModeVoxelGrid
	RenderModeFalseColorBaseColor
	RenderModeFalseColorBaseColorCoefficient
	RenderModeFalseColorBaseColorTexture
	RenderModeFalseColorMaterial
	RenderModeFalseColorMaterialCoefficient
	RenderModeFalseColorMaterialTexture
	RenderModeFalseColorRoughness
	RenderModeFalseColorRoughnessCoefficient
	RenderModeFalseColorRoughnessTexture
	RenderModeFalseColorMetalness
	RenderModeFalseColorMetalnessCoefficient
	RenderModeFalseColorMetalnessTexture
	RenderModeFalseColorShadingNormal
	RenderModeFalseColorTSNMShadingNormal
	RenderModeFalseColorDepth
	RenderModeFalseColorDistance
	RenderModeFalseColorUV
)

// FalseColor selects the surface attribute visualized by the false color pass.
type FalseColor int

const (
	FalseColorBaseColor FalseColor = iota
	FalseColorBaseColorCoefficient
	FalseColorBaseColorTexture
	FalseColorMaterial
	FalseColorMaterialCoefficient
	FalseColorMaterialTexture
	FalseColorRoughness
	FalseColorRoughnessCoefficient
	FalseColorRoughnessTexture
	FalseColorMetalness
	FalseColorMetalnessCoefficient
	FalseColorMetalnessTexture
	FalseColorShadingNormal
	FalseColorTSNMShadingNormal
	FalseColorDepth
	FalseColorDistance
	FalseColorUV
)

// FalseColor maps a false color render mode to the attribute it visualizes.
//
// Returns:
//   - FalseColor: the visualized attribute
//   - bool: false if m is not a false color mode
func (m RenderMode) FalseColor() (FalseColor, bool) {
	if m < RenderModeFalseColorBaseColor || m > RenderModeFalseColorUV {
		return 0, false
	}
	return FalseColor(m - RenderModeFalseColorBaseColor), true
}

// String implements fmt.Stringer.
func (m RenderMode) String() string {
	switch m {
	case RenderModeNone:
		return "none"
	case RenderModeForward:
		return "forward"
	case RenderModeDeferred:
		return "deferred"
	case RenderModeSolid:
		return "solid"
	case RenderModeVoxelGrid:
		return "voxel-grid"
	}
	if _, ok := m.FalseColor(); ok {
		return "false-color"
	}
	return "unknown"
}

// RenderLayer is a bit set of overlays drawn after the main passes.
type RenderLayer uint32

const (
	RenderLayerNone      RenderLayer = 0
	RenderLayerWireframe RenderLayer = 1 << 0
	RenderLayerAABB      RenderLayer = 1 << 1
)

// BRDF selects the shading model of the lit passes.
type BRDF int

const (
	BRDFLambertian BRDF = iota
	BRDFBlinnPhong
	BRDFCookTorrance
	BRDFFrostbite
	BRDFWard
	BRDFWardDuer
)

// Fog describes exponential distance fog.
type Fog struct {
	Color   mgl32.Vec3
	Density float32
}

// Sky describes the sky dome rendered behind the scene.
type Sky struct {
	Texture string
	ScaleZ  float32
}

// Settings bundles the per-camera choices that drive pass selection.
type Settings struct {
	RenderMode   RenderMode
	RenderLayers RenderLayer
	BRDF         BRDF
	Fog          Fog
	Sky          Sky
}

// DefaultSettings returns forward rendering with Frostbite shading, no overlays,
// no fog, and an unscaled sky.
func DefaultSettings() Settings {
	return Settings{
		RenderMode: RenderModeForward,
		BRDF:       BRDFFrostbite,
		Fog:        Fog{Color: mgl32.Vec3{1, 1, 1}},
		Sky:        Sky{ScaleZ: 1},
	}
}

// ContainsRenderLayer reports whether every bit of layer is set.
func (s *Settings) ContainsRenderLayer(layer RenderLayer) bool {
	return s.RenderLayers&layer == layer
}

// AddRenderLayer sets the bits of layer.
func (s *Settings) AddRenderLayer(layer RenderLayer) {
	s.RenderLayers |= layer
}

// RemoveRenderLayer clears the bits of layer.
func (s *Settings) RemoveRenderLayer(layer RenderLayer) {
	s.RenderLayers &^= layer
}

// ToggleRenderLayer flips the bits of layer.
func (s *Settings) ToggleRenderLayer(layer RenderLayer) {
	s.RenderLayers ^= layer
}
