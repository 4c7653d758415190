// Package light implements the directional, omni, and spot light components. Lights take
// their position and orientation from the owning node: a light shines along the negative
// z-axis of its owner, the same axis a camera looks down.
package light

import (
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/go-gl/mathgl/mgl32"
)

// lightBase carries the state every light kind shares.
type lightBase struct {
	node.ComponentBase

	color     mgl32.Vec3
	intensity float32
	shadows   bool
}

func newLightBase() lightBase {
	return lightBase{
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1.0,
	}
}

// Light defines the behavior shared by every light component.
type Light interface {
	node.Component

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// SetColor sets the RGB color of the light.
	SetColor(color mgl32.Vec3)

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// Radiance returns color scaled by intensity, the value uploaded to the GPU.
	Radiance() mgl32.Vec3

	// UseShadows reports whether the light renders a shadow map each frame.
	UseShadows() bool

	// EnableShadows turns shadow mapping on.
	EnableShadows()

	// DisableShadows turns shadow mapping off.
	DisableShadows()

	// ToggleShadows flips shadow mapping.
	ToggleShadows()

	// SetShadows sets whether shadow mapping is used.
	SetShadows(shadows bool)
}

func (l *lightBase) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightBase) SetColor(color mgl32.Vec3) {
	l.color = color
}

func (l *lightBase) Intensity() float32 {
	return l.intensity
}

func (l *lightBase) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightBase) Radiance() mgl32.Vec3 {
	return l.color.Mul(l.intensity)
}

func (l *lightBase) UseShadows() bool {
	return l.shadows
}

func (l *lightBase) EnableShadows() {
	l.shadows = true
}

func (l *lightBase) DisableShadows() {
	l.shadows = false
}

func (l *lightBase) ToggleShadows() {
	l.shadows = !l.shadows
}

func (l *lightBase) SetShadows(shadows bool) {
	l.shadows = shadows
}
