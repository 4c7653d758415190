package renderer

import (
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/lbuffer"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// The renderer only sequences passes. Each pass owns its pipelines and issues its own draws
// against the targets bound by the OutputManager. Unset passes fall back to the no-op
// implementations at the bottom of this file, except the LBuffer pass which defaults to
// an lbuffer.Processor on the renderer's GPU context.

// LBufferPass builds the light buffer for one camera and renders the shadow maps it needs.
// Shadow maps are complete when Render returns. lbuffer.Processor implements it.
type LBufferPass interface {
	Render(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error

	// RenderUnshadowed builds the light buffer without rendering any shadow map.
	RenderUnshadowed(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error

	// LBuffer returns the light buffer built by the most recent render.
	LBuffer() *lbuffer.LBuffer
}

// ForwardPass draws the scene models directly into the bound forward target.
type ForwardPass interface {
	// Render draws the opaque models with the given BRDF.
	//
	// Parameters:
	//   - s: the scene
	//   - worldToProjection: the camera's world-to-projection matrix
	//   - worldToCamera: the camera's world-to-view matrix
	//   - brdf: the shading model
	//   - vct: whether voxel cone tracing is available
	//
	// Returns:
	//   - error: an error if a draw fails
	Render(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4, brdf camera.BRDF, vct bool) error

	// RenderTransparent draws the transparent models back to front.
	RenderTransparent(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4, brdf camera.BRDF, vct bool) error

	// RenderEmissive draws the models that ignore lighting, after a deferred resolve.
	RenderEmissive(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4) error

	// RenderSolid draws every model with a flat unlit shade.
	RenderSolid(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4) error

	// RenderFalseColor visualizes a single material or geometry channel.
	RenderFalseColor(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4, falseColor camera.FalseColor) error

	// RenderWireframe overlays the model edges.
	RenderWireframe(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4) error
}

// DeferredPass fills the GBuffer and shades it.
type DeferredPass interface {
	// RenderGBuffer writes the opaque models into the GBuffer.
	RenderGBuffer(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4) error

	// Render shades the GBuffer with a full-screen draw. Used when the GBuffer is multisampled.
	Render(brdf camera.BRDF, vct bool) error

	// Dispatch shades the GBuffer with a compute dispatch covering viewport.
	Dispatch(viewport gpu.Viewport, brdf camera.BRDF, vct bool) error
}

// SkyPass draws the sky dome behind the opaque geometry.
type SkyPass interface {
	Render(sky camera.Sky) error
}

// VoxelizationPass voxelizes the scene into a 3D grid for voxel cone tracing.
type VoxelizationPass interface {
	// Render voxelizes every model.
	//
	// Parameters:
	//   - s: the scene
	//   - worldToVoxel: the orthographic world-to-voxel matrix
	//   - brdf: the shading model used to light the voxels
	//   - resolution: the number of voxels along each axis
	//
	// Returns:
	//   - error: an error if voxelization fails
	Render(s scene.Scene, worldToVoxel mgl32.Mat4, brdf camera.BRDF, resolution uint32) error
}

// VoxelGridPass visualizes the voxel grid.
type VoxelGridPass interface {
	Render(worldToProjection mgl32.Mat4, resolution uint32) error
}

// BoundingVolumePass draws the bounding boxes of lights and models.
type BoundingVolumePass interface {
	Render(s scene.Scene, worldToProjection, worldToCamera mgl32.Mat4) error
}

// AAPass resolves the forward target into a single-sampled image.
type AAPass interface {
	// DispatchPreprocess prepares the luminance input FXAA needs.
	DispatchPreprocess(viewport gpu.Viewport, aa AADescriptor) error

	// Dispatch runs the resolve or filter over viewport.
	Dispatch(viewport gpu.Viewport, aa AADescriptor) error
}

// DOFPass applies depth of field for cameras with a finite aperture.
type DOFPass interface {
	Dispatch(viewport gpu.Viewport, lens camera.Lens) error
}

// BackBufferPass copies the final image to the back buffer with gamma correction.
type BackBufferPass interface {
	Render() error
}

// SpritePass draws screen-space sprites over the whole display, once per frame.
type SpritePass interface {
	Render(s scene.Scene) error
}

type nopForwardPass struct{}

func (nopForwardPass) Render(scene.Scene, mgl32.Mat4, mgl32.Mat4, camera.BRDF, bool) error {
	return nil
}
func (nopForwardPass) RenderTransparent(scene.Scene, mgl32.Mat4, mgl32.Mat4, camera.BRDF, bool) error {
	return nil
}
func (nopForwardPass) RenderEmissive(scene.Scene, mgl32.Mat4, mgl32.Mat4) error { return nil }
func (nopForwardPass) RenderSolid(scene.Scene, mgl32.Mat4, mgl32.Mat4) error    { return nil }
func (nopForwardPass) RenderFalseColor(scene.Scene, mgl32.Mat4, mgl32.Mat4, camera.FalseColor) error {
	return nil
}
func (nopForwardPass) RenderWireframe(scene.Scene, mgl32.Mat4, mgl32.Mat4) error { return nil }

type nopDeferredPass struct{}

func (nopDeferredPass) RenderGBuffer(scene.Scene, mgl32.Mat4, mgl32.Mat4) error { return nil }
func (nopDeferredPass) Render(camera.BRDF, bool) error                          { return nil }
func (nopDeferredPass) Dispatch(gpu.Viewport, camera.BRDF, bool) error          { return nil }

type nopSkyPass struct{}

func (nopSkyPass) Render(camera.Sky) error { return nil }

type nopVoxelizationPass struct{}

func (nopVoxelizationPass) Render(scene.Scene, mgl32.Mat4, camera.BRDF, uint32) error { return nil }

type nopVoxelGridPass struct{}

func (nopVoxelGridPass) Render(mgl32.Mat4, uint32) error { return nil }

type nopBoundingVolumePass struct{}

func (nopBoundingVolumePass) Render(scene.Scene, mgl32.Mat4, mgl32.Mat4) error { return nil }

type nopAAPass struct{}

func (nopAAPass) DispatchPreprocess(gpu.Viewport, AADescriptor) error { return nil }
func (nopAAPass) Dispatch(gpu.Viewport, AADescriptor) error           { return nil }

type nopDOFPass struct{}

func (nopDOFPass) Dispatch(gpu.Viewport, camera.Lens) error { return nil }

type nopBackBufferPass struct{}

func (nopBackBufferPass) Render() error { return nil }

type nopSpritePass struct{}

func (nopSpritePass) Render(scene.Scene) error { return nil }
