package light

import (
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/node"
)

// directionalLightImpl is the implementation of the DirectionalLight interface.
type directionalLightImpl struct {
	lightBase
	lightCamera camera.Camera
}

// DirectionalLight is a light with no position, only a direction, used for distant
// sources such as the sun. It is never culled. Its shadow map is rendered with an
// orthographic light camera.
type DirectionalLight interface {
	Light

	// LightCamera returns the orthographic camera used to render the shadow map.
	LightCamera() camera.Camera

	// SetShadowVolume sizes the orthographic shadow volume.
	//
	// Parameters:
	//   - width, height: extents perpendicular to the light direction
	//   - near, far: clipping distances along the light direction
	SetShadowVolume(width, height, near, far float32)
}

var _ DirectionalLight = &directionalLightImpl{}

// NewDirectionalLight creates a white directional light without shadows.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - DirectionalLight: the new light
func NewDirectionalLight(opts ...LightBuilderOption) DirectionalLight {
	l := &directionalLightImpl{
		lightBase: newLightBase(),
		lightCamera: camera.NewCamera(
			camera.WithOrthographic(2*DefaultShadowHalfExtent, 2*DefaultShadowHalfExtent),
			camera.WithClipPlanes(DefaultShadowNear, DefaultShadowFar),
		),
	}
	for _, opt := range opts {
		opt(&l.lightBase)
	}
	return l
}

func (l *directionalLightImpl) Kind() node.Kind {
	return node.KindDirectionalLight
}

func (l *directionalLightImpl) LightCamera() camera.Camera {
	return l.lightCamera
}

func (l *directionalLightImpl) SetShadowVolume(width, height, near, far float32) {
	l.lightCamera.SetOrthographic(width, height)
	l.lightCamera.SetNearAndFar(near, far)
}
