// Package lbuffer gathers the scene's lights into per-frame, camera-space buffers and
// renders the shadow maps those buffers reference.
package lbuffer

import (
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLightEntry is a directional light in camera space.
type DirectionalLightEntry struct {
	// NegDirection points from the lit surface towards the light.
	NegDirection mgl32.Vec3
	Radiance     mgl32.Vec3
}

// OmniLightEntry is an omni light in camera space.
type OmniLightEntry struct {
	Position             mgl32.Vec3
	Radiance             mgl32.Vec3
	StartDistanceFalloff float32
	EndDistanceFalloff   float32
}

// SpotLightEntry is a spot light in camera space.
type SpotLightEntry struct {
	Position             mgl32.Vec3
	NegDirection         mgl32.Vec3
	Radiance             mgl32.Vec3
	StartDistanceFalloff float32
	EndDistanceFalloff   float32
	CosPenumbra          float32
	CosUmbra             float32
}

// Shadow links a light entry to its shadow map.
type Shadow struct {
	// CameraToLightProjection maps camera-space positions into the light's clip space.
	CameraToLightProjection mgl32.Mat4
	// ShadowMap is the index of the light's shadow map within its kind.
	ShadowMap int
}

// ShadowedDirectionalLightEntry is a shadow casting directional light.
type ShadowedDirectionalLightEntry struct {
	DirectionalLightEntry
	Shadow
}

// ShadowedOmniLightEntry is a shadow casting omni light.
type ShadowedOmniLightEntry struct {
	OmniLightEntry
	Shadow
}

// ShadowedSpotLightEntry is a shadow casting spot light.
type ShadowedSpotLightEntry struct {
	SpotLightEntry
	Shadow
}

// LBuffer holds one frame's lights, split by kind and by whether they cast shadows.
// It is rebuilt from scratch for every rendered camera.
type LBuffer struct {
	Fog camera.Fog

	DirectionalLights []DirectionalLightEntry
	OmniLights        []OmniLightEntry
	SpotLights        []SpotLightEntry

	ShadowedDirectionalLights []ShadowedDirectionalLightEntry
	ShadowedOmniLights        []ShadowedOmniLightEntry
	ShadowedSpotLights        []ShadowedSpotLightEntry
}

// Reset empties every bucket while keeping the allocated capacity.
func (b *LBuffer) Reset() {
	b.Fog = camera.Fog{}
	b.DirectionalLights = b.DirectionalLights[:0]
	b.OmniLights = b.OmniLights[:0]
	b.SpotLights = b.SpotLights[:0]
	b.ShadowedDirectionalLights = b.ShadowedDirectionalLights[:0]
	b.ShadowedOmniLights = b.ShadowedOmniLights[:0]
	b.ShadowedSpotLights = b.ShadowedSpotLights[:0]
}

// Counts returns the number of entries per bucket.
func (b *LBuffer) Counts() Counts {
	return Counts{
		Directional:         len(b.DirectionalLights),
		Omni:                len(b.OmniLights),
		Spot:                len(b.SpotLights),
		ShadowedDirectional: len(b.ShadowedDirectionalLights),
		ShadowedOmni:        len(b.ShadowedOmniLights),
		ShadowedSpot:        len(b.ShadowedSpotLights),
	}
}

// Counts is the number of entries per LBuffer bucket.
type Counts struct {
	Directional         int
	Omni                int
	Spot                int
	ShadowedDirectional int
	ShadowedOmni        int
	ShadowedSpot        int
}

// Total returns the number of lights across all buckets.
func (c Counts) Total() int {
	return c.Directional + c.Omni + c.Spot + c.ShadowedDirectional + c.ShadowedOmni + c.ShadowedSpot
}
