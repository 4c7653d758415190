package script

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlyScene(t *testing.T, opts ...FlyControllerOption) (scene.Scene, node.Handle, *FlyController) {
	t.Helper()
	s := scene.NewScene("fly")
	eye := s.CreateNode("eye")
	fc := NewFlyController(eye, opts...)
	require.NoError(t, s.AddScript(fc, true))
	return s, eye, fc
}

func TestFlyControllerMovesForwardAlongNegativeZ(t *testing.T) {
	s, eye, fc := newFlyScene(t, WithSpeed(2))

	fc.KeyDown(common.KeyW)
	require.NoError(t, s.Update(0.5))

	moved := s.Graph().Transform(eye).Translation()
	assert.InDeltaSlice(t, []float32{0, 0, -1}, moved[:], 1e-5)
}

func TestFlyControllerOpposingKeysCancel(t *testing.T) {
	s, eye, fc := newFlyScene(t)

	fc.KeyDown(common.KeyA)
	fc.KeyDown(common.KeyD)
	require.NoError(t, s.Update(1))

	assert.Equal(t, mgl32.Vec3{}, s.Graph().Transform(eye).Translation())
}

func TestFlyControllerDiagonalIsNormalizedAndBoosted(t *testing.T) {
	s, eye, fc := newFlyScene(t, WithSpeed(1), WithBoost(3))

	fc.KeyDown(common.KeyD)
	fc.KeyDown(common.KeyE)
	fc.KeyDown(common.KeyLeftShift)
	require.NoError(t, s.Update(1))

	moved := s.Graph().Transform(eye).Translation()
	assert.InDelta(t, 3, moved.Len(), 1e-5)
	assert.Greater(t, moved.X(), float32(0))
	assert.Greater(t, moved.Y(), float32(0))

	fc.KeyUp(common.KeyLeftShift)
	fc.KeyUp(common.KeyE)
	require.NoError(t, s.Update(1))
	assert.InDelta(t, moved.X()+1, s.Graph().Transform(eye).TranslationX(), 1e-5)
}

func TestFlyControllerMouseLookClampsPitch(t *testing.T) {
	s, eye, fc := newFlyScene(t, WithMouseSensitivity(0.01), WithMaxPitch(1))

	fc.MouseMove(10, 0)
	fc.MouseMove(10, 0)
	require.NoError(t, s.Update(0.016))
	tr := s.Graph().Transform(eye)
	assert.InDelta(t, -0.2, tr.RotationY(), 1e-6, "yaw accumulates every motion since the last update")
	assert.Zero(t, tr.RotationX())

	fc.MouseMove(0, -500)
	require.NoError(t, s.Update(0.016))
	assert.InDelta(t, 1, tr.RotationX(), 1e-6)

	require.NoError(t, s.Update(0.016))
	assert.InDelta(t, -0.2, tr.RotationY(), 1e-6, "motion is consumed by one update")
}

func TestFlyControllerLargeMotionStopsAtPitchLimit(t *testing.T) {
	s, eye, fc := newFlyScene(t, WithMouseSensitivity(0.01))
	tr := s.Graph().Transform(eye)
	limit := float32(math.Pi/2 - 0.01)

	fc.MouseMove(0, -400)
	require.NoError(t, s.Update(0.016))
	assert.InDelta(t, limit, tr.RotationX(), 1e-6, "looking far up must not wrap to looking down")

	fc.MouseMove(0, 800)
	require.NoError(t, s.Update(0.016))
	assert.InDelta(t, -limit, tr.RotationX(), 1e-6)
}

func TestFlyControllerYawStaysWrapped(t *testing.T) {
	s, eye, fc := newFlyScene(t, WithMouseSensitivity(float32(math.Pi/2)))

	for i := 0; i < 5; i++ {
		fc.MouseMove(-1, 0)
		require.NoError(t, s.Update(0.016))
	}
	assert.InDelta(t, math.Pi/2, s.Graph().Transform(eye).RotationY(), 1e-5, "five quarter turns end a quarter turn round")
}

func TestFlyControllerMovesAlongYaw(t *testing.T) {
	s, eye, fc := newFlyScene(t, WithSpeed(1), WithMouseSensitivity(float32(math.Pi/2)))

	// A quarter turn to the left faces -X.
	fc.MouseMove(-1, 0)
	fc.KeyDown(common.KeyW)
	require.NoError(t, s.Update(1))

	moved := s.Graph().Transform(eye).Translation()
	assert.InDeltaSlice(t, []float32{-1, 0, 0}, moved[:], 1e-5)
}

func TestFlyControllerReleaseAll(t *testing.T) {
	s, eye, fc := newFlyScene(t)

	fc.KeyDown(common.KeyS)
	fc.MouseMove(50, 50)
	fc.ReleaseAll()
	require.NoError(t, s.Update(1))

	tr := s.Graph().Transform(eye)
	assert.Equal(t, mgl32.Vec3{}, tr.Translation())
	assert.Equal(t, mgl32.Vec3{}, tr.Rotation())
}

func TestFlyControllerInvalidTarget(t *testing.T) {
	s, eye, fc := newFlyScene(t)
	s.DestroyNode(eye)

	assert.Error(t, s.Update(1))

	other := s.CreateNode("other")
	fc.SetTarget(other)
	assert.Equal(t, other, fc.Target())
	assert.NoError(t, s.Update(1))
	assert.Equal(t, FlyControllerName, fc.Name())
}
