package lbuffer

import "github.com/Carmen-Shannon/lumen/engine/gpu"

// ProcessorBuilderOption is a functional option for configuring a Processor.
type ProcessorBuilderOption func(*processor)

// WithShadowMapPass sets the pass that renders shadow map depth. Without it shadow maps
// are bucketed and bound but nothing is drawn into them.
//
// Parameters:
//   - pass: the shadow map pass
//
// Returns:
//   - ProcessorBuilderOption: a function that applies the pass option
func WithShadowMapPass(pass ShadowMapPass) ProcessorBuilderOption {
	return func(p *processor) {
		if pass != nil {
			p.shadows = pass
		}
	}
}

// WithBufferKey sets the GPU buffer the LBuffer is uploaded to.
//
// Parameters:
//   - key: the buffer key
//
// Returns:
//   - ProcessorBuilderOption: a function that applies the key option
func WithBufferKey(key gpu.BufferKey) ProcessorBuilderOption {
	return func(p *processor) {
		p.key = key
	}
}
