package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAADescriptor(t *testing.T) {
	for aa, name := range aaNames {
		got, err := ParseAADescriptor(name)
		require.NoError(t, err)
		assert.Equal(t, aa, got)
	}

	got, err := ParseAADescriptor(" MSAA-8x ")
	require.NoError(t, err)
	assert.Equal(t, AAMSAA8x, got)

	got, err = ParseAADescriptor("")
	require.NoError(t, err)
	assert.Equal(t, AANone, got)

	_, err = ParseAADescriptor("taa")
	assert.Error(t, err)
}

func TestAADescriptorSampling(t *testing.T) {
	assert.True(t, AAMSAA2x.UsesMSAA())
	assert.False(t, AASSAA2x.UsesMSAA())
	assert.True(t, AASSAA3x.UsesSSAA())
	assert.False(t, AAFXAA.UsesSSAA())

	assert.Equal(t, uint32(8), AAMSAA8x.SampleCount())
	assert.Equal(t, uint32(1), AASSAA4x.SampleCount())
	assert.Equal(t, uint32(4), AASSAA4x.SSFactor())
	assert.Equal(t, uint32(1), AAMSAA4x.SSFactor())
	assert.Equal(t, "unknown", AADescriptor(99).String())
}

func TestDisplayConfigurationViewports(t *testing.T) {
	d := DisplayConfiguration{Width: 640, Height: 480, AA: AASSAA3x, Gamma: 2.2}

	assert.Equal(t, gpu.NewViewport(0, 0, 640, 480), d.Viewport())
	assert.Equal(t, gpu.NewViewport(0, 0, 1920, 1440), d.SSViewport())
	assert.Equal(t, uint32(1920), d.SSWidth())
	assert.Equal(t, uint32(1440), d.SSHeight())
	assert.Equal(t, float32(3), d.SSFactor())
	assert.False(t, d.UsesMSAA())
}

func TestGameBuffer(t *testing.T) {
	g := NewGameBuffer(DisplayConfiguration{Width: 101, Height: 51, AA: AASSAA2x, Gamma: 2})

	assert.Equal(t, uint32(202), g.SSDisplayWidth)
	assert.InDelta(t, 0.01, g.DisplayInvWidthMinus1, 1e-7)
	assert.InDelta(t, 0.02, g.DisplayInvHeightMinus1, 1e-7)
	assert.InDelta(t, 1.0/201, g.SSDisplayInvWidthMinus1, 1e-7)
	assert.Equal(t, float32(0.5), g.InvGamma)
	assert.InDelta(t, 1.0/128, g.VoxelGridInvResolution, 1e-9)
	assert.InDelta(t, 12.5, g.VoxelInvSize, 1e-4)

	data := g.Marshal()
	require.Len(t, data, GPUGameBufferSize)
	assert.Equal(t, uint32(101), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(data[32:])))
	assert.Equal(t, uint32(VoxelGridResolution), binary.LittleEndian.Uint32(data[40:]))
}

func TestGameBufferGuardsDegenerateDisplays(t *testing.T) {
	g := NewGameBuffer(DisplayConfiguration{Width: 1, Height: 0})
	assert.Zero(t, g.DisplayInvWidthMinus1)
	assert.Zero(t, g.DisplayInvHeightMinus1)
	assert.Equal(t, float32(1), g.Gamma)
}
