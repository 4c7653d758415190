package renderer

import (
	"strings"

	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/pkg/errors"
)

// AADescriptor selects the anti-aliasing technique applied after the forward pass.
type AADescriptor int

const (
	// AANone disables anti-aliasing.
	AANone AADescriptor = iota
	// AAFXAA applies fast approximate anti-aliasing as a post-process.
	AAFXAA
	// AAMSAA2x renders into a 2-sample target and resolves it.
	AAMSAA2x
	// AAMSAA4x renders into a 4-sample target and resolves it.
	AAMSAA4x
	// AAMSAA8x renders into an 8-sample target and resolves it.
	AAMSAA8x
	// AASSAA2x renders at twice the display resolution and downsamples.
	AASSAA2x
	// AASSAA3x renders at three times the display resolution and downsamples.
	AASSAA3x
	// AASSAA4x renders at four times the display resolution and downsamples.
	AASSAA4x
)

var aaNames = map[AADescriptor]string{
	AANone:   "none",
	AAFXAA:   "fxaa",
	AAMSAA2x: "msaa-2x",
	AAMSAA4x: "msaa-4x",
	AAMSAA8x: "msaa-8x",
	AASSAA2x: "ssaa-2x",
	AASSAA3x: "ssaa-3x",
	AASSAA4x: "ssaa-4x",
}

func (a AADescriptor) String() string {
	if name, ok := aaNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAADescriptor maps a configuration name such as "msaa-4x" to its AADescriptor.
//
// Parameters:
//   - name: the configuration name, case-insensitive
//
// Returns:
//   - AADescriptor: the matching descriptor
//   - error: an error if the name is not recognized
func ParseAADescriptor(name string) (AADescriptor, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return AANone, nil
	}
	for aa, n := range aaNames {
		if n == name {
			return aa, nil
		}
	}
	return AANone, errors.Errorf("renderer: unknown anti-aliasing %q", name)
}

// UsesMSAA reports whether the descriptor renders into a multisampled target.
func (a AADescriptor) UsesMSAA() bool {
	return a == AAMSAA2x || a == AAMSAA4x || a == AAMSAA8x
}

// UsesSSAA reports whether the descriptor renders into a super-sampled target.
func (a AADescriptor) UsesSSAA() bool {
	return a == AASSAA2x || a == AASSAA3x || a == AASSAA4x
}

// SampleCount returns the number of samples per pixel of the main color target.
func (a AADescriptor) SampleCount() uint32 {
	switch a {
	case AAMSAA2x:
		return 2
	case AAMSAA4x:
		return 4
	case AAMSAA8x:
		return 8
	default:
		return 1
	}
}

// SSFactor returns the resolution multiplier of the super-sampled target, 1 when the
// descriptor does not super-sample.
func (a AADescriptor) SSFactor() uint32 {
	switch a {
	case AASSAA2x:
		return 2
	case AASSAA3x:
		return 3
	case AASSAA4x:
		return 4
	default:
		return 1
	}
}

// DisplayConfiguration describes the output surface the renderer draws to.
type DisplayConfiguration struct {
	Width    uint32
	Height   uint32
	AA       AADescriptor
	Gamma    float32
	VSync    bool
	Windowed bool
}

// DefaultDisplayConfiguration returns an 800x600 windowed display with FXAA and a gamma of 2.2.
func DefaultDisplayConfiguration() DisplayConfiguration {
	return DisplayConfiguration{
		Width:    800,
		Height:   600,
		AA:       AAFXAA,
		Gamma:    2.2,
		VSync:    true,
		Windowed: true,
	}
}

// UsesMSAA reports whether the display renders into a multisampled target.
func (d DisplayConfiguration) UsesMSAA() bool {
	return d.AA.UsesMSAA()
}

// SSFactor returns the super-sampling factor of the display.
func (d DisplayConfiguration) SSFactor() float32 {
	return float32(d.AA.SSFactor())
}

// SSWidth returns the width of the super-sampled target in pixels.
func (d DisplayConfiguration) SSWidth() uint32 {
	return d.Width * d.AA.SSFactor()
}

// SSHeight returns the height of the super-sampled target in pixels.
func (d DisplayConfiguration) SSHeight() uint32 {
	return d.Height * d.AA.SSFactor()
}

// Viewport returns a viewport covering the whole display.
func (d DisplayConfiguration) Viewport() gpu.Viewport {
	return gpu.NewViewport(0, 0, float32(d.Width), float32(d.Height))
}

// SSViewport returns a viewport covering the whole super-sampled target.
func (d DisplayConfiguration) SSViewport() gpu.Viewport {
	return d.Viewport().Scaled(d.SSFactor())
}
