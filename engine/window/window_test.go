package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMouseTrackerReportsMotion(t *testing.T) {
	var m mouseTracker

	_, _, ok := m.move(100, 50)
	assert.False(t, ok, "the first position has no previous one")

	dx, dy, ok := m.move(110, 45)
	assert.True(t, ok)
	assert.Equal(t, 10.0, dx)
	assert.Equal(t, -5.0, dy)

	m.reset()
	_, _, ok = m.move(0, 0)
	assert.False(t, ok, "a reset drops the jump to the new position")
}

func TestRequestCloseStopsTheLoop(t *testing.T) {
	w := &engineWindow{closeRequested: make(chan struct{})}

	w.RequestClose()
	w.RequestClose()

	assert.False(t, w.IsRunning())
	w.ProcessMessages()
}

func TestCloseWithoutPlatformWindow(t *testing.T) {
	w := &engineWindow{closeRequested: make(chan struct{})}
	assert.Error(t, w.Close())
	assert.Nil(t, w.SurfaceDescriptor())

	w.setSize(640, 480)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())
}
