package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestViewportScaled(t *testing.T) {
	v := NewViewport(10, 20, 800, 600).Scaled(2)
	assert.Equal(t, Viewport{X: 20, Y: 40, Width: 1600, Height: 1200, MinDepth: 0, MaxDepth: 1}, v)
	assert.InDelta(t, 800.0/600.0, v.AspectRatio(), 1e-6)
	assert.False(t, v.Empty())
	assert.True(t, Viewport{}.Empty())
	assert.Equal(t, float32(1), Viewport{}.AspectRatio())
}

func TestPackerLayout(t *testing.T) {
	p := NewPacker(96)
	p.Mat4(mgl32.Ident4()).Vec3(mgl32.Vec3{1, 2, 3}).Float32(4).Bool(true).Uint32(7).Pad(8)

	b := p.Bytes()
	assert.Equal(t, 96, p.Len())
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(b[0:])))
	assert.Equal(t, float32(0), math.Float32frombits(binary.LittleEndian.Uint32(b[4:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(b[72:])))
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(b[76:])))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(b[80:]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(b[84:]))
}
