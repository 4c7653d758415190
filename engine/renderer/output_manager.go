package renderer

// OutputManager owns the render targets of a frame and binds them around each pass group.
// Every Bind call pairs with the matching Bind*End call in the order the renderer issues them.
type OutputManager interface {
	// BindBegin prepares the targets of one camera and clears them.
	BindBegin() error

	// BindBeginForward binds the HDR color and depth targets for forward drawing.
	BindBeginForward() error
	// BindEndForward unbinds the forward targets.
	BindEndForward() error

	// BindBeginGBuffer binds the GBuffer targets for writing.
	BindBeginGBuffer() error
	// BindEndGBuffer unbinds the GBuffer targets.
	BindEndGBuffer() error

	// BindBeginDeferred binds the GBuffer for reading and the HDR target for shading.
	BindBeginDeferred() error
	// BindEndDeferred unbinds the deferred shading targets.
	BindEndDeferred() error

	// BindBeginResolve binds the forward target as input and the resolve target as output.
	BindBeginResolve() error
	// BindEndResolve unbinds the resolve targets.
	BindEndResolve() error

	// BindPingPong swaps the input and output of the post-processing chain.
	BindPingPong() error

	// BindBeginPostProcessing binds the resolved image as input of the post-processing chain.
	BindBeginPostProcessing() error

	// BindEnd finishes the camera's targets so the back buffer pass can read the final image.
	BindEnd() error
}

type nopOutputManager struct{}

func (nopOutputManager) BindBegin() error               { return nil }
func (nopOutputManager) BindBeginForward() error        { return nil }
func (nopOutputManager) BindEndForward() error          { return nil }
func (nopOutputManager) BindBeginGBuffer() error        { return nil }
func (nopOutputManager) BindEndGBuffer() error          { return nil }
func (nopOutputManager) BindBeginDeferred() error       { return nil }
func (nopOutputManager) BindEndDeferred() error         { return nil }
func (nopOutputManager) BindBeginResolve() error        { return nil }
func (nopOutputManager) BindEndResolve() error          { return nil }
func (nopOutputManager) BindPingPong() error            { return nil }
func (nopOutputManager) BindBeginPostProcessing() error { return nil }
func (nopOutputManager) BindEnd() error                 { return nil }
