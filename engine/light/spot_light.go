package light

import (
	"math"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/go-gl/mathgl/mgl32"
)

// spotLightImpl is the implementation of the SpotLight interface.
type spotLightImpl struct {
	lightBase

	startDistanceFalloff float32
	endDistanceFalloff   float32

	// cosines of the half-angles
	cosPenumbra float32
	cosUmbra    float32

	lightCamera    camera.Camera
	aabb           common.AABB
	boundingSphere common.BoundingSphere
}

// SpotLight emits a cone along the negative z-axis of its owner. Fragments inside the
// penumbra angle receive full intensity, fragments outside the umbra angle receive none.
// Distance falloff behaves as for omni lights.
type SpotLight interface {
	Light

	// StartDistanceFalloff returns the distance at which intensity falloff starts.
	StartDistanceFalloff() float32

	// EndDistanceFalloff returns the distance at which intensity reaches zero.
	EndDistanceFalloff() float32

	// RangeDistanceFalloff returns EndDistanceFalloff - StartDistanceFalloff.
	RangeDistanceFalloff() float32

	// SetStartDistanceFalloff sets the distance at which intensity falloff starts.
	SetStartDistanceFalloff(start float32)

	// SetEndDistanceFalloff sets the distance at which intensity reaches zero and updates
	// the light camera far plane and bounding volumes. Non-positive distances are ignored.
	SetEndDistanceFalloff(end float32)

	// SetDistanceFalloff sets both falloff distances.
	SetDistanceFalloff(start, end float32)

	// SetRangeDistanceFalloff sets the start distance and the end as start + r.
	SetRangeDistanceFalloff(start, r float32)

	// CosPenumbra returns the cosine of the penumbra half-angle.
	CosPenumbra() float32

	// CosUmbra returns the cosine of the umbra half-angle.
	CosUmbra() float32

	// PenumbraAngle returns the penumbra half-angle in radians.
	PenumbraAngle() float32

	// UmbraAngle returns the umbra half-angle in radians.
	UmbraAngle() float32

	// SetPenumbraAngle sets the penumbra half-angle in radians.
	SetPenumbraAngle(angle float32)

	// SetUmbraAngle sets the umbra half-angle in radians and updates the light camera
	// field of view and bounding volumes.
	SetUmbraAngle(angle float32)

	// SetPenumbraAndUmbraAngles sets both half-angles in radians.
	SetPenumbraAndUmbraAngles(penumbra, umbra float32)

	// LightCamera returns the perspective camera used to render the shadow map.
	LightCamera() camera.Camera

	// AABB returns the object-space bounding box of the cone.
	AABB() common.AABB

	// BoundingSphere returns the object-space bounding sphere of the cone.
	BoundingSphere() common.BoundingSphere
}

var _ SpotLight = &spotLightImpl{}

// NewSpotLight creates a white spot light with falloff from 0 to 1, a π/8 penumbra and a
// π/4 umbra, and no shadows.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - SpotLight: the new light
func NewSpotLight(opts ...LightBuilderOption) SpotLight {
	l := &spotLightImpl{
		lightBase: newLightBase(),
		lightCamera: camera.NewCamera(
			camera.WithPerspective(math.Pi/2, 1),
			camera.WithClipPlanes(DefaultShadowNear, 1),
		),
		endDistanceFalloff: 1,
	}
	for _, opt := range opts {
		opt(&l.lightBase)
	}
	l.SetPenumbraAndUmbraAngles(math.Pi/8, math.Pi/4)
	l.SetDistanceFalloff(0, 1)
	return l
}

func (l *spotLightImpl) Kind() node.Kind {
	return node.KindSpotLight
}

func (l *spotLightImpl) StartDistanceFalloff() float32 {
	return l.startDistanceFalloff
}

func (l *spotLightImpl) EndDistanceFalloff() float32 {
	return l.endDistanceFalloff
}

func (l *spotLightImpl) RangeDistanceFalloff() float32 {
	return l.endDistanceFalloff - l.startDistanceFalloff
}

func (l *spotLightImpl) SetStartDistanceFalloff(start float32) {
	l.startDistanceFalloff = start
}

func (l *spotLightImpl) SetEndDistanceFalloff(end float32) {
	if end <= 0 {
		return
	}
	l.endDistanceFalloff = end
	l.lightCamera.SetFar(end)
	l.updateBoundingVolumes()
}

func (l *spotLightImpl) SetDistanceFalloff(start, end float32) {
	l.SetStartDistanceFalloff(start)
	l.SetEndDistanceFalloff(end)
}

func (l *spotLightImpl) SetRangeDistanceFalloff(start, r float32) {
	l.SetDistanceFalloff(start, start+r)
}

func (l *spotLightImpl) CosPenumbra() float32 {
	return l.cosPenumbra
}

func (l *spotLightImpl) CosUmbra() float32 {
	return l.cosUmbra
}

func (l *spotLightImpl) PenumbraAngle() float32 {
	return float32(math.Acos(float64(l.cosPenumbra)))
}

func (l *spotLightImpl) UmbraAngle() float32 {
	return float32(math.Acos(float64(l.cosUmbra)))
}

func (l *spotLightImpl) SetPenumbraAngle(angle float32) {
	l.cosPenumbra = float32(math.Cos(float64(angle)))
}

func (l *spotLightImpl) SetUmbraAngle(angle float32) {
	l.cosUmbra = float32(math.Cos(float64(angle)))
	l.lightCamera.SetFov(2 * angle)
	l.updateBoundingVolumes()
}

func (l *spotLightImpl) SetPenumbraAndUmbraAngles(penumbra, umbra float32) {
	l.SetPenumbraAngle(penumbra)
	l.SetUmbraAngle(umbra)
}

func (l *spotLightImpl) LightCamera() camera.Camera {
	return l.lightCamera
}

func (l *spotLightImpl) AABB() common.AABB {
	return l.aabb
}

func (l *spotLightImpl) BoundingSphere() common.BoundingSphere {
	return l.boundingSphere
}

// updateBoundingVolumes fits the volumes around the cone with its apex at the origin,
// opening along -z up to the end falloff distance.
func (l *spotLightImpl) updateBoundingVolumes() {
	e := l.endDistanceFalloff
	cos := float64(l.cosUmbra)
	sin := math.Sqrt(max(0, 1-cos*cos))
	a := e
	if cos > 0 {
		a = e * float32(sin/cos)
	}
	l.aabb = common.NewAABB(mgl32.Vec3{-a, -a, -e}, mgl32.Vec3{a, a, 0})
	l.boundingSphere = common.BoundingSphere{
		Center: l.aabb.Center(),
		Radius: l.aabb.Extents().Len(),
	}
}
