package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithDisplay sets the display configuration the renderer starts with.
//
// Parameters:
//   - display: the display configuration
//
// Returns:
//   - RendererBuilderOption: a function that applies the display option to a renderer
func WithDisplay(display DisplayConfiguration) RendererBuilderOption {
	return func(r *renderer) {
		r.display = display
	}
}

// WithOutputManager sets the OutputManager that binds the render targets.
//
// Parameters:
//   - output: the output manager
//
// Returns:
//   - RendererBuilderOption: a function that applies the output manager option to a renderer
func WithOutputManager(output OutputManager) RendererBuilderOption {
	return func(r *renderer) {
		r.output = output
	}
}

// WithVoxelConeTracing enables voxelization before the forward and deferred passes and
// tells the lit passes a voxel grid is available.
//
// Parameters:
//   - enabled: true to voxelize every frame
//
// Returns:
//   - RendererBuilderOption: a function that applies the voxel cone tracing option to a renderer
func WithVoxelConeTracing(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.vct = enabled
	}
}

// WithUpdateWorkers sets how many goroutines marshal model buffers each frame.
// Defaults to runtime.NumCPU().
//
// Parameters:
//   - workers: the worker count; values below 1 are raised to 1
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count option to a renderer
func WithUpdateWorkers(workers int) RendererBuilderOption {
	return func(r *renderer) {
		r.updateWorkers = workers
	}
}

// WithLBufferPass replaces the default lbuffer.Processor.
func WithLBufferPass(p LBufferPass) RendererBuilderOption {
	return func(r *renderer) {
		r.lbufferPass = p
	}
}

// WithForwardPass sets the forward pass.
func WithForwardPass(p ForwardPass) RendererBuilderOption {
	return func(r *renderer) {
		r.forwardPass = p
	}
}

// WithDeferredPass sets the deferred pass.
func WithDeferredPass(p DeferredPass) RendererBuilderOption {
	return func(r *renderer) {
		r.deferredPass = p
	}
}

// WithSkyPass sets the sky pass.
func WithSkyPass(p SkyPass) RendererBuilderOption {
	return func(r *renderer) {
		r.skyPass = p
	}
}

// WithVoxelizationPass sets the voxelization pass.
func WithVoxelizationPass(p VoxelizationPass) RendererBuilderOption {
	return func(r *renderer) {
		r.voxelizationPass = p
	}
}

// WithVoxelGridPass sets the voxel grid visualization pass.
func WithVoxelGridPass(p VoxelGridPass) RendererBuilderOption {
	return func(r *renderer) {
		r.voxelGridPass = p
	}
}

// WithBoundingVolumePass sets the pass drawing the AABB render layer.
func WithBoundingVolumePass(p BoundingVolumePass) RendererBuilderOption {
	return func(r *renderer) {
		r.boundingVolumePass = p
	}
}

// WithAAPass sets the anti-aliasing pass.
func WithAAPass(p AAPass) RendererBuilderOption {
	return func(r *renderer) {
		r.aaPass = p
	}
}

// WithDOFPass sets the depth of field pass.
func WithDOFPass(p DOFPass) RendererBuilderOption {
	return func(r *renderer) {
		r.dofPass = p
	}
}

// WithBackBufferPass sets the back buffer pass.
func WithBackBufferPass(p BackBufferPass) RendererBuilderOption {
	return func(r *renderer) {
		r.backBufferPass = p
	}
}

// WithSpritePass sets the sprite pass.
func WithSpritePass(p SpritePass) RendererBuilderOption {
	return func(r *renderer) {
		r.spritePass = p
	}
}
