package model

import (
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUModelBufferSize is the size of the marshaled model buffer in bytes.
const GPUModelBufferSize = 160

// GPUModelBuffer is the GPU-aligned representation of a model.
// Layout (160 bytes, WGSL aligned):
//
//	offset   0: object_to_world mat4x4<f32>
//	offset  64: normal_to_world mat4x4<f32>
//	offset 128: base_color      vec4<f32>
//	offset 144: roughness f32, metalness f32, lit u32, padding
type GPUModelBuffer struct {
	ObjectToWorld mgl32.Mat4
	NormalToWorld mgl32.Mat4
	BaseColor     mgl32.Vec4
	Roughness     float32
	Metalness     float32
	Lit           bool
}

// Marshal serializes the buffer for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer (GPUModelBufferSize bytes)
func (g *GPUModelBuffer) Marshal() []byte {
	p := gpu.NewPacker(GPUModelBufferSize)
	p.Mat4(g.ObjectToWorld).Mat4(g.NormalToWorld).Vec4(g.BaseColor)
	p.Float32(g.Roughness).Float32(g.Metalness).Bool(g.Lit).Pad(4)
	return p.Bytes()
}
