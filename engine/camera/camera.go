// Package camera implements the camera component: projection, viewport, lens, and the
// render settings that select the pass sequence for each frame.
package camera

import (
	"math"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var cameraCount atomic.Uint64

// Projection selects the projection model of a camera.
type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	node.ComponentBase

	projection Projection

	// perspective parameters
	fovY   float32
	aspect float32

	// orthographic parameters
	width  float32
	height float32

	near float32
	far  float32

	viewport gpu.Viewport
	lens     Lens
	settings Settings

	bufferKey gpu.BufferKey

	cameraToProjection mgl32.Mat4
	projectionToCamera mgl32.Mat4
	dirty              bool
}

// Camera is a node component that renders the scene from its owner's point of view.
//
// The camera looks down the negative z-axis of its owner node. Its world-to-camera
// matrix is the owner's world-to-object matrix; the camera itself only holds the
// camera-to-projection part.
type Camera interface {
	node.Component

	// Projection returns the projection model.
	Projection() Projection

	// SetPerspective switches to a perspective projection.
	//
	// Parameters:
	//   - fovY: vertical field of view in radians
	//   - aspect: width / height
	SetPerspective(fovY, aspect float32)

	// SetOrthographic switches to an orthographic projection.
	//
	// Parameters:
	//   - width, height: extents of the view volume in camera space
	SetOrthographic(width, height float32)

	// Fov returns the vertical field of view in radians (perspective only).
	Fov() float32

	// SetFov sets the vertical field of view in radians.
	SetFov(fovY float32)

	// Aspect returns the aspect ratio (perspective only).
	Aspect() float32

	// SetAspect sets the aspect ratio.
	SetAspect(aspect float32)

	// Size returns the width and height of the orthographic view volume.
	Size() (width, height float32)

	// Near returns the near clipping distance.
	Near() float32

	// SetNear sets the near clipping distance.
	SetNear(near float32)

	// Far returns the far clipping distance.
	Far() float32

	// SetFar sets the far clipping distance.
	SetFar(far float32)

	// SetNearAndFar sets both clipping distances.
	SetNearAndFar(near, far float32)

	// CameraToProjectionMatrix returns the projection matrix, recomputed lazily.
	CameraToProjectionMatrix() mgl32.Mat4

	// ProjectionToCameraMatrix returns the inverse projection matrix, recomputed lazily.
	ProjectionToCameraMatrix() mgl32.Mat4

	// Viewport returns the viewport in display pixels.
	Viewport() gpu.Viewport

	// SetViewport sets the viewport in display pixels.
	SetViewport(v gpu.Viewport)

	// SSViewport returns the viewport mapped into a super-sampled target.
	//
	// Parameters:
	//   - factor: the super-sampling factor of the display
	SSViewport(factor float32) gpu.Viewport

	// Lens returns the lens.
	Lens() Lens

	// SetLens replaces the lens.
	SetLens(lens Lens)

	// Settings returns the mutable render settings.
	Settings() *Settings

	// BufferKey returns the key of the camera's GPU buffer.
	BufferKey() gpu.BufferKey

	// UpdateBuffer writes the camera buffer for this frame.
	//
	// Parameters:
	//   - ctx: the GPU context
	//   - worldToCamera: the owner's world-to-object matrix
	//   - cameraToWorld: the owner's object-to-world matrix
	//   - ssFactor: the super-sampling factor of the display
	//
	// Returns:
	//   - error: an error if the write fails
	UpdateBuffer(ctx gpu.Context, worldToCamera, cameraToWorld mgl32.Mat4, ssFactor float32) error
}

var _ Camera = &cameraImpl{}

// NewCamera creates a perspective camera with a 45 degree field of view and any
// provided options applied.
//
// Parameters:
//   - opts: variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the new camera
func NewCamera(opts ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		projection: ProjectionPerspective,
		fovY:       45.0 * (math.Pi / 180.0),
		aspect:     1.0,
		width:      1.0,
		height:     1.0,
		near:       0.01,
		far:        100.0,
		viewport:   gpu.NewViewport(0, 0, 1, 1),
		lens:       DefaultLens(),
		settings:   DefaultSettings(),
		bufferKey:  gpu.BufferKey("camera_" + strconv.FormatUint(cameraCount.Add(1), 10)),
		dirty:      true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *cameraImpl) Kind() node.Kind {
	return node.KindCamera
}

func (c *cameraImpl) Projection() Projection {
	return c.projection
}

func (c *cameraImpl) SetPerspective(fovY, aspect float32) {
	c.projection = ProjectionPerspective
	c.fovY = fovY
	c.aspect = aspect
	c.dirty = true
}

func (c *cameraImpl) SetOrthographic(width, height float32) {
	c.projection = ProjectionOrthographic
	c.width = width
	c.height = height
	c.dirty = true
}

func (c *cameraImpl) Fov() float32 {
	return c.fovY
}

func (c *cameraImpl) SetFov(fovY float32) {
	c.fovY = fovY
	c.dirty = true
}

func (c *cameraImpl) Aspect() float32 {
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.aspect = aspect
	c.dirty = true
}

func (c *cameraImpl) Size() (float32, float32) {
	return c.width, c.height
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
	c.dirty = true
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
	c.dirty = true
}

func (c *cameraImpl) SetNearAndFar(near, far float32) {
	c.near = near
	c.far = far
	c.dirty = true
}

func (c *cameraImpl) CameraToProjectionMatrix() mgl32.Mat4 {
	c.updateMatrices()
	return c.cameraToProjection
}

func (c *cameraImpl) ProjectionToCameraMatrix() mgl32.Mat4 {
	c.updateMatrices()
	return c.projectionToCamera
}

func (c *cameraImpl) Viewport() gpu.Viewport {
	return c.viewport
}

func (c *cameraImpl) SetViewport(v gpu.Viewport) {
	c.viewport = v
}

func (c *cameraImpl) SSViewport(factor float32) gpu.Viewport {
	return c.viewport.Scaled(factor)
}

func (c *cameraImpl) Lens() Lens {
	return c.lens
}

func (c *cameraImpl) SetLens(lens Lens) {
	c.lens = lens
}

func (c *cameraImpl) Settings() *Settings {
	return &c.settings
}

func (c *cameraImpl) BufferKey() gpu.BufferKey {
	return c.bufferKey
}

func (c *cameraImpl) UpdateBuffer(ctx gpu.Context, worldToCamera, cameraToWorld mgl32.Mat4, ssFactor float32) error {
	payload := GPUCameraBuffer{
		WorldToCamera:      worldToCamera,
		CameraToProjection: c.CameraToProjectionMatrix(),
		ProjectionToCamera: c.ProjectionToCameraMatrix(),
		CameraToWorld:      cameraToWorld,
		Viewport:           c.viewport,
		SSViewport:         c.SSViewport(ssFactor),
		Lens:               c.lens,
		Fog:                c.settings.Fog,
		SkyScaleZ:          c.settings.Sky.ScaleZ,
		BRDF:               uint32(c.settings.BRDF),
	}
	if err := ctx.WriteBuffer(c.bufferKey, 0, payload.Marshal()); err != nil {
		return errors.Wrapf(err, "camera: write buffer %s", c.bufferKey)
	}
	return nil
}

// updateMatrices recomputes the projection and its inverse if any parameter changed.
func (c *cameraImpl) updateMatrices() {
	if !c.dirty {
		return
	}
	switch c.projection {
	case ProjectionOrthographic:
		hw, hh := 0.5*c.width, 0.5*c.height
		c.cameraToProjection = common.OrthographicOffCenter(-hw, hw, -hh, hh, c.near, c.far)
	default:
		c.cameraToProjection = common.Perspective(c.fovY, c.aspect, c.near, c.far)
	}
	c.projectionToCamera = c.cameraToProjection.Inv()
	c.dirty = false
}
