package light

import (
	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/go-gl/mathgl/mgl32"
)

// omniLightImpl is the implementation of the OmniLight interface.
type omniLightImpl struct {
	lightBase

	startDistanceFalloff float32
	endDistanceFalloff   float32

	lightCamera    camera.Camera
	aabb           common.AABB
	boundingSphere common.BoundingSphere
}

// OmniLight emits in all directions from its owner's origin. Intensity falls off
// between the start and end falloff distances and is zero beyond the end. The end
// distance also bounds the light's culling volumes and the far plane of its cube shadow
// map camera, and all three always change together.
type OmniLight interface {
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

	// LightCamera returns the cube-face camera used to render the shadow map.
	LightCamera() camera.Camera

	// AABB returns the object-space bounding box.
	AABB() common.AABB

	// BoundingSphere returns the object-space bounding sphere.
	BoundingSphere() common.BoundingSphere
}

var _ OmniLight = &omniLightImpl{}

// NewOmniLight creates a white omni light with falloff from 0 to 1 and no shadows.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - OmniLight: the new light
func NewOmniLight(opts ...LightBuilderOption) OmniLight {
	l := &omniLightImpl{
		lightBase: newLightBase(),
		lightCamera: camera.NewCamera(
			camera.WithPerspective(omniLightFov, 1),
			camera.WithClipPlanes(DefaultShadowNear, 1),
		),
	}
	for _, opt := range opts {
		opt(&l.lightBase)
	}
	l.SetDistanceFalloff(0, 1)
	return l
}

func (l *omniLightImpl) Kind() node.Kind {
	return node.KindOmniLight
}

func (l *omniLightImpl) StartDistanceFalloff() float32 {
	return l.startDistanceFalloff
}

func (l *omniLightImpl) EndDistanceFalloff() float32 {
	return l.endDistanceFalloff
}

func (l *omniLightImpl) RangeDistanceFalloff() float32 {
	return l.endDistanceFalloff - l.startDistanceFalloff
}

func (l *omniLightImpl) SetStartDistanceFalloff(start float32) {
	l.startDistanceFalloff = start
}

func (l *omniLightImpl) SetEndDistanceFalloff(end float32) {
	if end <= 0 {
		return
	}
	l.endDistanceFalloff = end
	l.lightCamera.SetFar(end)
	l.updateBoundingVolumes()
}

func (l *omniLightImpl) SetDistanceFalloff(start, end float32) {
	l.SetStartDistanceFalloff(start)
	l.SetEndDistanceFalloff(end)
}

func (l *omniLightImpl) SetRangeDistanceFalloff(start, r float32) {
	l.SetDistanceFalloff(start, start+r)
}

func (l *omniLightImpl) LightCamera() camera.Camera {
	return l.lightCamera
}

func (l *omniLightImpl) AABB() common.AABB {
	return l.aabb
}

func (l *omniLightImpl) BoundingSphere() common.BoundingSphere {
	return l.boundingSphere
}

func (l *omniLightImpl) updateBoundingVolumes() {
	e := l.endDistanceFalloff
	l.aabb = common.NewAABB(mgl32.Vec3{-e, -e, -e}, mgl32.Vec3{e, e, e})
	l.boundingSphere = common.BoundingSphere{Radius: e}
}
