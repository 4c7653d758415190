package camera

// Lens describes the thin lens used by the depth of field pass.
type Lens struct {
	// ApertureRadius is the radius of the aperture. Zero means a pinhole camera.
	ApertureRadius float32
	// FocalLength is the distance to the plane in focus.
	FocalLength float32
	// MaxCoCRadius caps the circle of confusion radius in pixels.
	MaxCoCRadius float32
}

// DefaultLens returns a pinhole lens.
func DefaultLens() Lens {
	return Lens{ApertureRadius: 0, FocalLength: 3, MaxCoCRadius: 8}
}

// HasFiniteAperture reports whether the lens produces depth of field.
func (l Lens) HasFiniteAperture() bool {
	return l.ApertureRadius != 0
}
