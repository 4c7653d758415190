package engine

import (
	"time"

	"github.com/Carmen-Shannon/lumen/engine/renderer"
	"github.com/Carmen-Shannon/lumen/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Options run after the configuration is applied, so they override it.
type EngineBuilderOption func(*engine)

// WithWindow sets a pre-configured window rather than letting the engine open one.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer and the surface it presents to, rather than letting the
// engine create a WebGPU backend. Both are required together.
//
// Parameters:
//   - r: the renderer
//   - s: the surface presenting r's output
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer, s Surface) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
		e.surface = s
	}
}

// WithInputHandler forwards the window's input events to h.
func WithInputHandler(h InputHandler) EngineBuilderOption {
	return func(e *engine) {
		e.handlers = append(e.handlers, h)
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the number of FixedUpdate steps per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(tps float64) EngineBuilderOption {
	return func(e *engine) {
		if tps <= 0 {
			tps = 60.0
		}
		e.tickRate = time.Duration(float64(time.Second) / tps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
