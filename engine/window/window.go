// Package window opens the platform window the engine presents into and forwards its
// input events.
package window

import (
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// Window provides platform windowing and input event handling.
//
// Every callback runs on the goroutine calling ProcessMessages, which must be the main
// goroutine. Width and Height may be read from any goroutine.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code, see the common key codes
	SetKeyDownCallback(callback func(key int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyUpCallback(callback func(key int))

	// SetMouseMoveCallback sets the callback for cursor motion. The callback receives the
	// motion since the previous event, never an absolute position.
	//
	// Parameters:
	//   - callback: function receiving the horizontal and vertical motion in pixels
	SetMouseMoveCallback(callback func(dx, dy float64))

	// SetFocusCallback sets the callback for focus changes.
	SetFocusCallback(callback func(focused bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// RequestClose asks the message loop to stop. Safe to call from any goroutine.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never opened
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	fullscreen    bool
	captureCursor bool

	// sizeMu guards width and height, written by the message loop and read by the render loop.
	sizeMu sync.RWMutex
	width  int
	height int

	mouse mouseTracker

	// closeRequested is set by RequestClose and honored by the next message loop iteration.
	closeRequested chan struct{}
	closeOnce      sync.Once

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate    func()
	onResize    func(width, height int)
	onKeyDown   func(key int)
	onKeyUp     func(key int)
	onMouseMove func(dx, dy float64)
	onFocus     func(focused bool)
}

var _ Window = &engineWindow{}

// NewWindow creates and opens a window with the specified options.
// Applies default values first, then each option in order. Must be called on the main
// goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: an error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:          "lumen",
		maxWidth:       -1,
		maxHeight:      -1,
		minWidth:       320,
		minHeight:      200,
		width:          800,
		height:         600,
		closeRequested: make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, errors.Wrap(err, "window: create platform window")
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(key int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(key int)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(dx, dy float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetFocusCallback(callback func(focused bool)) {
	w.onFocus = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	select {
	case <-w.closeRequested:
		return false
	default:
	}
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.closeOnce.Do(func() {
		close(w.closeRequested)
	})
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.sizeMu.RLock()
	defer w.sizeMu.RUnlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.sizeMu.RLock()
	defer w.sizeMu.RUnlock()
	return w.height
}

func (w *engineWindow) setSize(width, height int) {
	w.sizeMu.Lock()
	w.width = width
	w.height = height
	w.sizeMu.Unlock()
}

// mouseTracker turns absolute cursor positions into motion deltas.
type mouseTracker struct {
	x, y  float64
	valid bool
}

// move records the cursor position and returns the motion since the previous position.
// The first position after a reset produces no motion.
func (m *mouseTracker) move(x, y float64) (dx, dy float64, ok bool) {
	if m.valid {
		dx, dy, ok = x-m.x, y-m.y, true
	}
	m.x, m.y, m.valid = x, y, true
	return dx, dy, ok
}

// reset forgets the last position, e.g. after the cursor re-enters the window.
func (m *mouseTracker) reset() {
	m.valid = false
}
