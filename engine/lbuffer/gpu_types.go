package lbuffer

import (
	"github.com/Carmen-Shannon/lumen/engine/gpu"
)

// Sizes of the marshaled LBuffer parts in bytes.
const (
	GPUHeaderSize           = 48
	GPUDirectionalLightSize = 32
	GPUOmniLightSize        = 32
	GPUSpotLightSize        = 64
	GPUShadowSize           = 80
)

// Size returns the number of bytes Marshal produces.
func (b *LBuffer) Size() int {
	c := b.Counts()
	return GPUHeaderSize +
		c.Directional*GPUDirectionalLightSize +
		c.Omni*GPUOmniLightSize +
		c.Spot*GPUSpotLightSize +
		c.ShadowedDirectional*(GPUDirectionalLightSize+GPUShadowSize) +
		c.ShadowedOmni*(GPUOmniLightSize+GPUShadowSize) +
		c.ShadowedSpot*(GPUSpotLightSize+GPUShadowSize)
}

// Marshal serializes the LBuffer for GPU upload.
// Layout (WGSL aligned):
//
//	header: six u32 bucket counts, 8 bytes padding, fog color vec3<f32>, fog density f32
//	then the buckets in header order: directional, omni, spot, and their shadowed variants
//
// Shadowed entries are the plain entry followed by a camera-to-light-projection
// mat4x4<f32> and the shadow map index padded to 16 bytes.
//
// Returns:
//   - []byte: the serialized byte buffer (Size bytes)
func (b *LBuffer) Marshal() []byte {
	p := gpu.NewPacker(b.Size())
	c := b.Counts()
	p.Uint32(uint32(c.Directional)).Uint32(uint32(c.Omni)).Uint32(uint32(c.Spot))
	p.Uint32(uint32(c.ShadowedDirectional)).Uint32(uint32(c.ShadowedOmni)).Uint32(uint32(c.ShadowedSpot))
	p.Pad(8)
	p.Vec3(b.Fog.Color).Float32(b.Fog.Density)

	for i := range b.DirectionalLights {
		packDirectional(p, &b.DirectionalLights[i])
	}
	for i := range b.OmniLights {
		packOmni(p, &b.OmniLights[i])
	}
	for i := range b.SpotLights {
		packSpot(p, &b.SpotLights[i])
	}
	for i := range b.ShadowedDirectionalLights {
		packDirectional(p, &b.ShadowedDirectionalLights[i].DirectionalLightEntry)
		packShadow(p, &b.ShadowedDirectionalLights[i].Shadow)
	}
	for i := range b.ShadowedOmniLights {
		packOmni(p, &b.ShadowedOmniLights[i].OmniLightEntry)
		packShadow(p, &b.ShadowedOmniLights[i].Shadow)
	}
	for i := range b.ShadowedSpotLights {
		packSpot(p, &b.ShadowedSpotLights[i].SpotLightEntry)
		packShadow(p, &b.ShadowedSpotLights[i].Shadow)
	}
	return p.Bytes()
}

func packDirectional(p *gpu.Packer, e *DirectionalLightEntry) {
	p.Vec3(e.NegDirection).Pad(4)
	p.Vec3(e.Radiance).Pad(4)
}

func packOmni(p *gpu.Packer, e *OmniLightEntry) {
	p.Vec3(e.Position).Float32(e.EndDistanceFalloff)
	p.Vec3(e.Radiance).Float32(invRange(e.StartDistanceFalloff, e.EndDistanceFalloff))
}

func packSpot(p *gpu.Packer, e *SpotLightEntry) {
	p.Vec3(e.Position).Float32(e.EndDistanceFalloff)
	p.Vec3(e.Radiance).Float32(invRange(e.StartDistanceFalloff, e.EndDistanceFalloff))
	p.Vec3(e.NegDirection).Float32(e.CosUmbra)
	p.Float32(invRange(e.CosUmbra, e.CosPenumbra)).Pad(12)
}

func packShadow(p *gpu.Packer, s *Shadow) {
	p.Mat4(s.CameraToLightProjection)
	p.Uint32(uint32(s.ShadowMap)).Pad(12)
}

// invRange returns 1 / (hi - lo), or 0 for an empty range.
func invRange(lo, hi float32) float32 {
	if hi == lo {
		return 0
	}
	return 1 / (hi - lo)
}
