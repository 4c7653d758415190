package camera

import "github.com/Carmen-Shannon/lumen/engine/gpu"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPerspective configures a perspective projection.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//
// Returns:
//   - CameraBuilderOption: a function that applies the projection option
func WithPerspective(fovY, aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionPerspective
		c.fovY = fovY
		c.aspect = aspect
	}
}

// WithOrthographic configures an orthographic projection.
//
// Parameters:
//   - width, height: extents of the view volume in camera space
//
// Returns:
//   - CameraBuilderOption: a function that applies the projection option
func WithOrthographic(width, height float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.projection = ProjectionOrthographic
		c.width = width
		c.height = height
	}
}

// WithClipPlanes sets the near and far clipping distances.
//
// Returns:
//   - CameraBuilderOption: a function that applies the clipping option
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithViewport sets the viewport in display pixels.
//
// Returns:
//   - CameraBuilderOption: a function that applies the viewport option
func WithViewport(v gpu.Viewport) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.viewport = v
	}
}

// WithLens sets the lens.
//
// Returns:
//   - CameraBuilderOption: a function that applies the lens option
func WithLens(lens Lens) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lens = lens
	}
}

// WithSettings replaces the render settings.
//
// Returns:
//   - CameraBuilderOption: a function that applies the settings option
func WithSettings(s Settings) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.settings = s
	}
}

// WithRenderMode sets the render mode.
//
// Returns:
//   - CameraBuilderOption: a function that applies the render mode option
func WithRenderMode(mode RenderMode) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.settings.RenderMode = mode
	}
}

// WithRenderLayers sets the overlay layers.
//
// Returns:
//   - CameraBuilderOption: a function that applies the layer option
func WithRenderLayers(layers RenderLayer) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.settings.RenderLayers = layers
	}
}
