// Package material describes the surface properties shared by models. Materials are
// registered by name in a resource manager and referenced by any number of models.
package material

import "github.com/go-gl/mathgl/mgl32"

// material is the implementation of the Material interface.
type material struct {
	name             string
	lightInteraction bool
	transparent      bool
	emissive         bool
	baseColor        mgl32.Vec4
	roughness        float32
	metalness        float32
	baseColorTexture string
	materialTexture  string
	normalTexture    string
}

// Material defines the surface of a model.
//
// Materials select the pass that draws a model: transparent materials are drawn by the
// transparent forward pass, emissive materials by the emissive pass after deferred
// shading, and everything else by the opaque passes.
type Material interface {
	// Name returns the name the material is registered under.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// InteractsWithLight reports whether the material is lit. Unlit materials are
	// rendered with their base color only.
	InteractsWithLight() bool

	// SetLightInteraction sets whether the material is lit.
	SetLightInteraction(interaction bool)

	// Transparent reports whether the material needs blending.
	Transparent() bool

	// SetTransparent marks the material as transparent.
	SetTransparent(transparent bool)

	// Emissive reports whether the material emits light.
	Emissive() bool

	// SetEmissive marks the material as emissive.
	SetEmissive(emissive bool)

	// BaseColor returns the RGBA base color coefficient.
	BaseColor() mgl32.Vec4

	// SetBaseColor sets the RGBA base color coefficient. An alpha below one makes the
	// material transparent.
	SetBaseColor(c mgl32.Vec4)

	// Roughness returns the roughness coefficient in [0, 1].
	Roughness() float32

	// SetRoughness sets the roughness coefficient.
	SetRoughness(r float32)

	// Metalness returns the metalness coefficient in [0, 1].
	Metalness() float32

	// SetMetalness sets the metalness coefficient.
	SetMetalness(m float32)

	// BaseColorTexture returns the name of the base color texture, or "".
	BaseColorTexture() string

	// MaterialTexture returns the name of the roughness/metalness texture, or "".
	MaterialTexture() string

	// NormalTexture returns the name of the tangent-space normal map, or "".
	NormalTexture() string
}

var _ Material = &material{}

// NewMaterial creates a lit, opaque, white material with roughness 0.5 and metalness 0.
//
// Parameters:
//   - name: the material name
//   - opts: variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the new material
func NewMaterial(name string, opts ...MaterialBuilderOption) Material {
	m := &material{
		name:             name,
		lightInteraction: true,
		baseColor:        mgl32.Vec4{1, 1, 1, 1},
		roughness:        0.5,
		metalness:        0.0,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) InteractsWithLight() bool {
	return m.lightInteraction
}

func (m *material) SetLightInteraction(interaction bool) {
	m.lightInteraction = interaction
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) SetTransparent(transparent bool) {
	m.transparent = transparent
}

func (m *material) Emissive() bool {
	return m.emissive
}

func (m *material) SetEmissive(emissive bool) {
	m.emissive = emissive
}

func (m *material) BaseColor() mgl32.Vec4 {
	return m.baseColor
}

func (m *material) SetBaseColor(c mgl32.Vec4) {
	m.baseColor = c
	if c[3] < 1 {
		m.transparent = true
	}
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) SetRoughness(r float32) {
	m.roughness = r
}

func (m *material) Metalness() float32 {
	return m.metalness
}

func (m *material) SetMetalness(v float32) {
	m.metalness = v
}

func (m *material) BaseColorTexture() string {
	return m.baseColorTexture
}

func (m *material) MaterialTexture() string {
	return m.materialTexture
}

func (m *material) NormalTexture() string {
	return m.normalTexture
}
