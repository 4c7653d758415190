// Package script provides reusable scene scripts: a free-flight controller for camera
// nodes and a statistics reporter.
package script

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// FlyControllerName is the script name of every FlyController.
const FlyControllerName = "fly-controller"

// FlyController moves a node like a free-flying camera. W/S move along the node's view
// direction, A/D strafe, E/Q rise and sink along world up, and Left Shift applies the boost
// factor. Mouse motion yaws the node around the parent y-axis and pitches it around its own
// x-axis, with pitch clamped short of straight up or down.
//
// Input methods may be called from the window goroutine while Update runs on the loop
// goroutine; input is buffered and consumed by the next Update.
type FlyController struct {
	scene.ScriptBase

	mu     *sync.Mutex
	target node.Handle

	pressed map[int]bool
	mouseDX float64
	mouseDY float64

	speed            float32
	boost            float32
	mouseSensitivity float32
	maxPitch         float32
}

var _ scene.Script = &FlyController{}

// NewFlyController creates a controller that drives the transform of target.
//
// Parameters:
//   - target: the node to move, usually the node holding the camera
//   - options: functional options to configure the controller
//
// Returns:
//   - *FlyController: the newly created controller
func NewFlyController(target node.Handle, options ...FlyControllerOption) *FlyController {
	fc := &FlyController{
		mu:               &sync.Mutex{},
		target:           target,
		pressed:          make(map[int]bool),
		speed:            5.0,
		boost:            4.0,
		mouseSensitivity: 0.0025,
		maxPitch:         float32(math.Pi/2 - 0.01),
	}

	for _, option := range options {
		option(fc)
	}
	return fc
}

// Name returns FlyControllerName.
func (fc *FlyController) Name() string {
	return FlyControllerName
}

// Target returns the node the controller drives.
func (fc *FlyController) Target() node.Handle {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.target
}

// SetTarget switches the controller to another node.
func (fc *FlyController) SetTarget(target node.Handle) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.target = target
}

// KeyDown records that key is held. Keys use the common key codes.
func (fc *FlyController) KeyDown(key int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.pressed[key] = true
}

// KeyUp records that key was released.
func (fc *FlyController) KeyUp(key int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	delete(fc.pressed, key)
}

// MouseMove accumulates cursor motion in pixels until the next Update.
//
// Parameters:
//   - dx: horizontal motion, positive to the right
//   - dy: vertical motion, positive downwards
func (fc *FlyController) MouseMove(dx, dy float64) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.mouseDX += dx
	fc.mouseDY += dy
}

// ReleaseAll forgets every held key and any pending mouse motion, e.g. when the window
// loses focus.
func (fc *FlyController) ReleaseAll() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	clear(fc.pressed)
	fc.mouseDX, fc.mouseDY = 0, 0
}

// Update applies the buffered mouse motion and moves the target for the held keys.
//
// Parameters:
//   - dt: the elapsed time in seconds since the previous frame
//   - s: the scene holding the target
//
// Returns:
//   - error: an error if the target node does not exist in s
func (fc *FlyController) Update(dt float64, s scene.Scene) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	t := s.Graph().Transform(fc.target)
	if t == nil {
		return errors.Errorf("fly controller: target node %s is not valid", fc.target)
	}

	if fc.mouseDX != 0 || fc.mouseDY != 0 {
		t.SetRotationY(common.WrapAngleRadians(t.RotationY() - float32(fc.mouseDX)*fc.mouseSensitivity))
		// Clamp before any wrap so a large motion stops at the limit instead of flipping over.
		t.SetRotationX(mgl32.Clamp(t.RotationX()-float32(fc.mouseDY)*fc.mouseSensitivity, -fc.maxPitch, fc.maxPitch))
		fc.mouseDX, fc.mouseDY = 0, 0
	}

	forward := t.ParentAxisZ().Mul(-1)
	right := t.ParentAxisX()
	up := mgl32.Vec3{0, 1, 0}

	var direction mgl32.Vec3
	fc.accumulate(&direction, common.KeyW, forward)
	fc.accumulate(&direction, common.KeyS, forward.Mul(-1))
	fc.accumulate(&direction, common.KeyD, right)
	fc.accumulate(&direction, common.KeyA, right.Mul(-1))
	fc.accumulate(&direction, common.KeyE, up)
	fc.accumulate(&direction, common.KeyQ, up.Mul(-1))

	length := direction.Len()
	if length < 1e-6 {
		return nil
	}

	speed := fc.speed
	if fc.pressed[common.KeyLeftShift] {
		speed *= fc.boost
	}
	t.AddTranslation(direction.Mul(speed * float32(dt) / length))
	return nil
}

// accumulate adds axis to direction when key is held. Caller must hold the mutex.
func (fc *FlyController) accumulate(direction *mgl32.Vec3, key int, axis mgl32.Vec3) {
	if fc.pressed[key] {
		*direction = direction.Add(axis)
	}
}
