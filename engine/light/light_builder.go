package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption configures the state every light kind shares.
type LightBuilderOption func(*lightBase)

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r, g, b: the color components
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightBase) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightBase) {
		l.intensity = intensity
	}
}

// WithShadows is an option builder that enables or disables shadow mapping.
//
// Parameters:
//   - shadows: true to render a shadow map for the light
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option
func WithShadows(shadows bool) LightBuilderOption {
	return func(l *lightBase) {
		l.shadows = shadows
	}
}
