package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a functional option for configuring a Material.
type MaterialBuilderOption func(*material)

// WithBaseColor sets the RGBA base color. An alpha below one makes the material transparent.
//
// Parameters:
//   - r, g, b, a: the color components
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option
func WithBaseColor(r, g, b, a float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = mgl32.Vec4{r, g, b, a}
		if a < 1 {
			m.transparent = true
		}
	}
}

// WithRoughness sets the roughness coefficient.
func WithRoughness(r float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = r
	}
}

// WithMetalness sets the metalness coefficient.
func WithMetalness(v float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = v
	}
}

// WithLightInteraction sets whether the material is lit.
func WithLightInteraction(interaction bool) MaterialBuilderOption {
	return func(m *material) {
		m.lightInteraction = interaction
	}
}

// WithTransparency marks the material as transparent.
func WithTransparency(transparent bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = transparent
	}
}

// WithEmissive marks the material as emissive.
func WithEmissive(emissive bool) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = emissive
	}
}

// WithTextures sets the texture names. Empty names leave the slot unused.
//
// Parameters:
//   - baseColor: the base color texture
//   - materialTexture: the roughness/metalness texture
//   - normal: the tangent-space normal map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option
func WithTextures(baseColor, materialTexture, normal string) MaterialBuilderOption {
	return func(m *material) {
		m.baseColorTexture = baseColor
		m.materialTexture = materialTexture
		m.normalTexture = normal
	}
}
