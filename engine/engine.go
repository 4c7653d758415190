// Package engine runs a scene: it owns the window, the WebGPU backend and the renderer,
// drives the scene scripts at a fixed tick rate plus once per frame, and presents each
// rendered frame.
package engine

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/config"
	"github.com/Carmen-Shannon/lumen/engine/profiler"
	"github.com/Carmen-Shannon/lumen/engine/renderer"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/Carmen-Shannon/lumen/engine/window"
	"github.com/pkg/errors"
)

// maxFixedStepsPerFrame bounds the FixedUpdate catch-up after a long frame.
const maxFixedStepsPerFrame = 8

// Surface is the presentation side of the GPU backend. renderer.WGPUBackend implements it.
type Surface interface {
	// ConfigureSurface (re)creates the swapchain and render targets for the display.
	ConfigureSurface(display renderer.DisplayConfiguration) error

	// Present submits and presents the rendered frame.
	Present() error

	// Release frees every GPU resource.
	Release()
}

// InputHandler receives the window's input events. script.FlyController implements it.
type InputHandler interface {
	KeyDown(key int)
	KeyUp(key int)
	MouseMove(dx, dy float64)
}

// Engine is the main entry point for the engine.
// It orchestrates the loop goroutine, the renderer and the window.
type Engine interface {
	// Window returns the underlying window.
	Window() window.Window

	// Renderer returns the renderer.
	Renderer() renderer.Renderer

	// Scene returns the scene being run.
	Scene() scene.Scene

	// SetScene replaces the scene at the start of the next frame. The running scene is
	// closed and s is loaded before its first update.
	//
	// Parameters:
	//   - s: the scene to run
	SetScene(s scene.Scene)

	// AddInputHandler forwards the window's input events to h.
	//
	// Parameters:
	//   - h: the handler
	AddInputHandler(h InputHandler)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the number of FixedUpdate steps per second.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop.
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run loads the scene, starts the loop goroutine and runs the window message loop on
	// the calling goroutine. It blocks until the window closes or Quit is called, then
	// closes the scene and releases the GPU.
	//
	// Returns:
	//   - error: an error if the scene fails to load or to close, or the loop panicked
	Run() error

	// Quit signals the loop goroutine and the window to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// engine implements the Engine interface.
type engine struct {
	mu sync.Mutex

	window   window.Window
	surface  Surface
	renderer renderer.Renderer
	display  renderer.DisplayConfiguration

	scene        scene.Scene
	pendingScene scene.Scene
	handlers     []InputHandler

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate         time.Duration
	renderFrameLimit time.Duration
	accumulator      time.Duration

	// resize carries the latest framebuffer size from the window goroutine to the loop.
	resize chan [2]uint32

	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup

	// loopErr is the panic recovered from the loop goroutine, if any.
	loopErr error

	now func() time.Time
}

var _ Engine = &engine{}

// New creates an Engine from a configuration.
//
// It installs a text logger at the configured level, then opens a window, creates the
// WebGPU backend on its surface and a renderer on top, unless the options already supply
// them. Must be called on the main goroutine.
//
// Parameters:
//   - cfg: the engine configuration, see config.Load
//   - s: the scene to run
//   - options: functional options applied after the configuration
//
// Returns:
//   - Engine: the engine, ready to Run
//   - error: an error if the configuration is invalid or the window or GPU cannot be created
func New(cfg config.Config, s scene.Scene, options ...EngineBuilderOption) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("engine: New requires a scene")
	}
	level, _ := cfg.Log.SlogLevel()
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	aa, err := renderer.ParseAADescriptor(cfg.Display.AntiAliasing)
	if err != nil {
		return nil, err
	}

	e := &engine{
		scene:            s,
		resize:           make(chan [2]uint32, 1),
		quitChannel:      make(chan struct{}),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: cfg.Engine.Profiling,
		tickRate:         time.Second / time.Duration(cfg.Engine.TickRate),
		now:              time.Now,
		display: renderer.DisplayConfiguration{
			Width:    cfg.Display.Width,
			Height:   cfg.Display.Height,
			AA:       aa,
			Gamma:    cfg.Display.Gamma,
			VSync:    cfg.Display.VSync,
			Windowed: cfg.Display.Windowed,
		},
	}
	e.SetRenderFrameLimit(float64(cfg.Engine.FrameLimit))

	for _, opt := range options {
		opt(e)
	}

	if err := e.open(cfg); err != nil {
		return nil, err
	}
	e.wireWindow()

	common.Logger().Info("engine: created",
		"scene", s.Name(),
		"width", e.display.Width,
		"height", e.display.Height,
		"aa", e.display.AA.String(),
		"tick", e.tickRate)
	return e, nil
}

// open creates whatever the options did not supply: window, backend and renderer.
func (e *engine) open(cfg config.Config) error {
	if e.window == nil {
		w, err := window.NewWindow(
			window.WithTitle(common.Coalesce(e.scene.Name(), "lumen")),
			window.WithSize(int(cfg.Display.Width), int(cfg.Display.Height)),
			window.WithFullscreen(!cfg.Display.Windowed),
		)
		if err != nil {
			return err
		}
		e.window = w
	}
	if w, h := e.window.Width(), e.window.Height(); w > 0 && h > 0 {
		e.display.Width, e.display.Height = uint32(w), uint32(h)
	}

	if e.surface == nil || e.renderer == nil {
		backend, err := renderer.NewWGPUBackend(e.window.SurfaceDescriptor(), false)
		if err != nil {
			return errors.Wrap(err, "engine: create GPU backend")
		}
		if !e.display.VSync {
			backend.SetPresentMode(renderer.PresentModeUncapped)
		}
		e.surface = backend
		e.renderer = renderer.NewRenderer(backend,
			renderer.WithDisplay(e.display),
			renderer.WithOutputManager(backend),
			renderer.WithUpdateWorkers(cfg.Engine.UpdateWorkers),
		)
	}

	if err := e.surface.ConfigureSurface(e.display); err != nil {
		return errors.Wrap(err, "engine: configure surface")
	}
	if err := e.renderer.SetDisplay(e.display); err != nil {
		return errors.Wrap(err, "engine: bind persistent state")
	}
	return nil
}

// wireWindow routes window events to the loop and the input handlers.
func (e *engine) wireWindow() {
	e.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			// minimized
			return
		}
		size := [2]uint32{uint32(width), uint32(height)}
		// Replace any pending size so the loop only sees the latest.
		select {
		case e.resize <- size:
		default:
			select {
			case <-e.resize:
			default:
			}
			e.resize <- size
		}
	})
	e.window.SetKeyDownCallback(func(key int) {
		for _, h := range e.inputHandlers() {
			h.KeyDown(key)
		}
	})
	e.window.SetKeyUpCallback(func(key int) {
		for _, h := range e.inputHandlers() {
			h.KeyUp(key)
		}
	})
	e.window.SetMouseMoveCallback(func(dx, dy float64) {
		for _, h := range e.inputHandlers() {
			h.MouseMove(dx, dy)
		}
	})
	e.window.SetFocusCallback(func(focused bool) {
		if focused {
			return
		}
		for _, h := range e.inputHandlers() {
			if r, ok := h.(interface{ ReleaseAll() }); ok {
				r.ReleaseAll()
			}
		}
	})
	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})
}

func (e *engine) inputHandlers() []InputHandler {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handlers
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingScene != nil {
		return e.pendingScene
	}
	return e.scene
}

func (e *engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingScene = s
}

func (e *engine) AddInputHandler(h InputHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// Copy on write; the window goroutine iterates the previous slice unlocked.
	e.handlers = append(append([]InputHandler(nil), e.handlers...), h)
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickRate = time.Duration(float64(time.Second) / tps)
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run() error {
	if err := e.scene.Load(); err != nil {
		return errors.Wrapf(err, "engine: load scene %q", e.scene.Name())
	}

	e.wg.Add(1)
	go e.handleLoop()
	e.window.ProcessMessages()

	e.Quit()
	e.wg.Wait()

	var errs []error
	if e.loopErr != nil {
		errs = append(errs, e.loopErr)
	}
	if err := e.scene.Close(); err != nil {
		errs = append(errs, errors.Wrapf(err, "engine: close scene %q", e.scene.Name()))
	}
	e.surface.Release()
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("engine: close window", "err", err)
	}
	common.Logger().Info("engine: stopped")
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Quit signals the loop goroutine to stop and asks the window to close.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleLoop runs frames until quit. Recovers from panics to avoid crashing the process
// and signals quit on recovery.
func (e *engine) handleLoop() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("engine: loop goroutine recovered from panic", "panic", r)
			e.loopErr = errors.Errorf("engine: loop panicked: %v", r)
			e.Quit()
		}
	}()

	common.Logger().Info("engine: loop started")
	last := e.now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		start := e.now()
		dt := start.Sub(last)
		last = start
		e.frame(dt)

		e.mu.Lock()
		limit := e.renderFrameLimit
		e.mu.Unlock()
		if limit > 0 {
			if remaining := limit - e.now().Sub(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frame runs one iteration of the loop: pending scene swap and resize, the fixed steps
// owed for dt, one Update, then render and present. Errors are logged and the loop
// continues with the next frame.
func (e *engine) frame(dt time.Duration) {
	e.mu.Lock()
	if e.pendingScene != nil {
		e.switchScene(e.pendingScene)
		e.pendingScene = nil
	}
	s := e.scene
	tick := e.tickRate
	profiling := e.profilingEnabled
	e.mu.Unlock()

	select {
	case size := <-e.resize:
		e.applyResize(size[0], size[1])
	default:
	}

	e.accumulator += dt
	steps := 0
	for e.accumulator >= tick {
		if steps == maxFixedStepsPerFrame {
			common.Logger().Warn("engine: dropping fixed steps", "behind", e.accumulator)
			e.accumulator = 0
			break
		}
		if err := s.FixedUpdate(); err != nil {
			common.Logger().Error("engine: fixed update", "scene", s.Name(), "err", err)
		}
		e.accumulator -= tick
		steps++
	}

	if err := s.Update(dt.Seconds()); err != nil {
		common.Logger().Error("engine: update", "scene", s.Name(), "err", err)
	}
	if err := e.renderer.Render(s); err != nil {
		common.Logger().Error("engine: render", "scene", s.Name(), "err", err)
	}
	if err := e.surface.Present(); err != nil {
		common.Logger().Error("engine: present", "err", err)
	}

	if profiling {
		e.profiler.Tick()
	}
}

// switchScene closes the running scene and loads next in its place. Errors are logged and
// the switch still happens. Caller must hold the mutex.
func (e *engine) switchScene(next scene.Scene) {
	prev := e.scene
	if next == prev {
		return
	}
	if err := prev.Close(); err != nil {
		common.Logger().Error("engine: close scene", "scene", prev.Name(), "err", err)
	}
	e.scene = next
	e.accumulator = 0
	if err := next.Load(); err != nil {
		common.Logger().Error("engine: load scene", "scene", next.Name(), "err", err)
	}
	common.Logger().Info("engine: scene switched", "from", prev.Name(), "to", next.Name())
}

// applyResize reconfigures the surface and the renderer for a new framebuffer size.
func (e *engine) applyResize(width, height uint32) {
	if width == e.display.Width && height == e.display.Height {
		return
	}
	e.display.Width, e.display.Height = width, height
	if err := e.surface.ConfigureSurface(e.display); err != nil {
		common.Logger().Error("engine: reconfigure surface", "width", width, "height", height, "err", err)
		return
	}
	if err := e.renderer.SetDisplay(e.display); err != nil {
		common.Logger().Error("engine: rebind persistent state", "err", err)
		return
	}
	common.Logger().Debug("engine: resized", "width", width, "height", height)
}
