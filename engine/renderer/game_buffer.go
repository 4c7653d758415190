package renderer

import "github.com/Carmen-Shannon/lumen/engine/gpu"

const (
	// GameBufferKey is the GPU buffer holding the persistent game state.
	GameBufferKey gpu.BufferKey = "game"

	// GPUGameBufferSize is the size in bytes of a marshaled GameBuffer.
	GPUGameBufferSize = 64

	// VoxelGridResolution is the number of voxels along each axis of the voxel grid.
	VoxelGridResolution = 128

	// VoxelSize is the edge length of a single voxel in world units.
	VoxelSize float32 = 0.08
)

// GameBuffer is the state shared by every pass that only changes with the display.
type GameBuffer struct {
	DisplayWidth             uint32
	DisplayHeight            uint32
	DisplayInvWidthMinus1    float32
	DisplayInvHeightMinus1   float32
	SSDisplayWidth           uint32
	SSDisplayHeight          uint32
	SSDisplayInvWidthMinus1  float32
	SSDisplayInvHeightMinus1 float32
	Gamma                    float32
	InvGamma                 float32
	VoxelGridResolution      uint32
	VoxelGridInvResolution   float32
	VoxelSize                float32
	VoxelInvSize             float32
}

// NewGameBuffer derives the game buffer from a display configuration and the voxel grid constants.
//
// Parameters:
//   - display: the display configuration
//
// Returns:
//   - GameBuffer: the derived buffer
func NewGameBuffer(display DisplayConfiguration) GameBuffer {
	gamma := display.Gamma
	if gamma <= 0 {
		gamma = 1
	}
	return GameBuffer{
		DisplayWidth:             display.Width,
		DisplayHeight:            display.Height,
		DisplayInvWidthMinus1:    invMinus1(display.Width),
		DisplayInvHeightMinus1:   invMinus1(display.Height),
		SSDisplayWidth:           display.SSWidth(),
		SSDisplayHeight:          display.SSHeight(),
		SSDisplayInvWidthMinus1:  invMinus1(display.SSWidth()),
		SSDisplayInvHeightMinus1: invMinus1(display.SSHeight()),
		Gamma:                    gamma,
		InvGamma:                 1 / gamma,
		VoxelGridResolution:      VoxelGridResolution,
		VoxelGridInvResolution:   1 / float32(VoxelGridResolution),
		VoxelSize:                VoxelSize,
		VoxelInvSize:             1 / VoxelSize,
	}
}

func invMinus1(n uint32) float32 {
	if n <= 1 {
		return 0
	}
	return 1 / float32(n-1)
}

// Marshal packs the buffer into its GPU layout.
func (g GameBuffer) Marshal() []byte {
	return gpu.NewPacker(GPUGameBufferSize).
		Uint32(g.DisplayWidth).
		Uint32(g.DisplayHeight).
		Float32(g.DisplayInvWidthMinus1).
		Float32(g.DisplayInvHeightMinus1).
		Uint32(g.SSDisplayWidth).
		Uint32(g.SSDisplayHeight).
		Float32(g.SSDisplayInvWidthMinus1).
		Float32(g.SSDisplayInvHeightMinus1).
		Float32(g.Gamma).
		Float32(g.InvGamma).
		Uint32(g.VoxelGridResolution).
		Float32(g.VoxelGridInvResolution).
		Float32(g.VoxelSize).
		Float32(g.VoxelInvSize).
		Pad(8).
		Bytes()
}
