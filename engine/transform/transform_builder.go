package transform

import "github.com/go-gl/mathgl/mgl32"

// TransformBuilderOption is a functional option for configuring a Transform.
type TransformBuilderOption func(*Transform)

// WithTranslation sets the initial translation.
//
// Parameters:
//   - v: the translation
//
// Returns:
//   - TransformBuilderOption: a function that applies the translation option
func WithTranslation(v mgl32.Vec3) TransformBuilderOption {
	return func(t *Transform) {
		t.translation = v
	}
}

// WithRotation sets the initial Euler rotation in radians.
//
// Parameters:
//   - v: the rotation
//
// Returns:
//   - TransformBuilderOption: a function that applies the rotation option
func WithRotation(v mgl32.Vec3) TransformBuilderOption {
	return func(t *Transform) {
		t.rotation = v
	}
}

// WithScale sets the initial per-axis scale.
//
// Parameters:
//   - v: the scale
//
// Returns:
//   - TransformBuilderOption: a function that applies the scale option
func WithScale(v mgl32.Vec3) TransformBuilderOption {
	return func(t *Transform) {
		t.scale = v
	}
}
