package lbuffer

import (
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ShadowMapKind identifies the shadow map array a target belongs to.
type ShadowMapKind int

const (
	ShadowMapDirectional ShadowMapKind = iota
	ShadowMapOmni
	ShadowMapSpot
)

// String implements fmt.Stringer.
func (k ShadowMapKind) String() string {
	switch k {
	case ShadowMapDirectional:
		return "directional"
	case ShadowMapOmni:
		return "omni"
	case ShadowMapSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// ShadowMapTarget addresses one shadow map layer. Omni lights use six faces per map.
type ShadowMapTarget struct {
	Kind  ShadowMapKind
	Index int
	Face  int
}

// ShadowMapPass renders scene depth into a shadow map layer. The light camera buffer is
// bound to the secondary camera slot before the call.
type ShadowMapPass interface {
	// Prepare sizes the shadow map arrays for this frame.
	//
	// Parameters:
	//   - directional: number of directional shadow maps
	//   - omni: number of omni cube shadow maps
	//   - spot: number of spot shadow maps
	//
	// Returns:
	//   - error: an error if the targets cannot be allocated
	Prepare(directional, omni, spot int) error

	// Render renders the depth of every active model into target.
	//
	// Parameters:
	//   - s: the scene
	//   - target: the shadow map layer
	//   - worldToLightProjection: the light's combined view-projection matrix
	//
	// Returns:
	//   - error: an error if rendering fails
	Render(s scene.Scene, target ShadowMapTarget, worldToLightProjection mgl32.Mat4) error
}

type nopShadowMapPass struct{}

func (nopShadowMapPass) Prepare(int, int, int) error { return nil }

func (nopShadowMapPass) Render(scene.Scene, ShadowMapTarget, mgl32.Mat4) error { return nil }

// cubeFaces are the look directions and up vectors of the six cube map faces in the
// conventional +X, -X, +Y, -Y, +Z, -Z order.
var cubeFaces = [6]struct{ dir, up mgl32.Vec3 }{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}
