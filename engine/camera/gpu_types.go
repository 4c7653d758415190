package camera

import (
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraBufferSize is the size of the marshaled camera buffer in bytes.
const GPUCameraBufferSize = 336

// GPUCameraBuffer is the GPU-aligned representation of a camera.
// Layout (336 bytes, WGSL aligned):
//
//	offset   0: world_to_camera       mat4x4<f32>
//	offset  64: camera_to_projection  mat4x4<f32>
//	offset 128: projection_to_camera  mat4x4<f32>
//	offset 192: camera_to_world       mat4x4<f32>
//	offset 256: viewport              vec4<f32> (x, y, width, height)
//	offset 272: ss_viewport           vec4<f32>
//	offset 288: lens                  vec3<f32> (aperture, focal length, max coc) + fog density
//	offset 304: fog color             vec3<f32> + sky scale z
//	offset 320: brdf                  u32 + padding
type GPUCameraBuffer struct {
	WorldToCamera      mgl32.Mat4
	CameraToProjection mgl32.Mat4
	ProjectionToCamera mgl32.Mat4
	CameraToWorld      mgl32.Mat4
	Viewport           gpu.Viewport
	SSViewport         gpu.Viewport
	Lens               Lens
	Fog                Fog
	SkyScaleZ          float32
	BRDF               uint32
}

// Marshal serializes the buffer for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer (GPUCameraBufferSize bytes)
func (g *GPUCameraBuffer) Marshal() []byte {
	p := gpu.NewPacker(GPUCameraBufferSize)
	p.Mat4(g.WorldToCamera).
		Mat4(g.CameraToProjection).
		Mat4(g.ProjectionToCamera).
		Mat4(g.CameraToWorld)
	p.Float32(g.Viewport.X).Float32(g.Viewport.Y).Float32(g.Viewport.Width).Float32(g.Viewport.Height)
	p.Float32(g.SSViewport.X).Float32(g.SSViewport.Y).Float32(g.SSViewport.Width).Float32(g.SSViewport.Height)
	p.Float32(g.Lens.ApertureRadius).Float32(g.Lens.FocalLength).Float32(g.Lens.MaxCoCRadius).Float32(g.Fog.Density)
	p.Vec3(g.Fog.Color).Float32(g.SkyScaleZ)
	p.Uint32(g.BRDF).Pad(12)
	return p.Bytes()
}
