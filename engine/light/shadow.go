package light

import "math"

// ShadowMapResolution is the width and height in texels of every shadow map face.
const ShadowMapResolution = 2048

// DefaultShadowHalfExtent is the default orthographic half-extent (in world units)
// of a directional light's shadow volume.
const DefaultShadowHalfExtent float32 = 40.0

// DefaultShadowNear is the near plane of every light camera.
const DefaultShadowNear float32 = 0.1

// DefaultShadowFar is the default far plane of a directional light's shadow volume.
const DefaultShadowFar float32 = 200.0

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map texel
// world-size to compute the normal-offset bias. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 3.0

// OmniShadowFaces is the number of cube faces rendered for an omni light shadow map.
const OmniShadowFaces = 6

// omniLightFov is the field of view of one cube face.
const omniLightFov float32 = math.Pi / 2
