package gpu

// Viewport is a rectangle in pixels with a depth range.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// NewViewport creates a viewport with the full [0, 1] depth range.
func NewViewport(x, y, width, height float32) Viewport {
	return Viewport{X: x, Y: y, Width: width, Height: height, MinDepth: 0, MaxDepth: 1}
}

// Scaled returns the viewport with its position and size multiplied by factor, which is
// how a viewport is mapped into a super-sampled render target.
func (v Viewport) Scaled(factor float32) Viewport {
	v.X *= factor
	v.Y *= factor
	v.Width *= factor
	v.Height *= factor
	return v
}

// AspectRatio returns width / height, or 1 for a degenerate viewport.
func (v Viewport) AspectRatio() float32 {
	if v.Height == 0 {
		return 1
	}
	return v.Width / v.Height
}

// Empty reports whether the viewport covers no pixels.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}
