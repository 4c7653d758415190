// Package renderer sequences the render passes of a frame: it refreshes the per-frame GPU
// buffers, then walks every active camera through the pass chain its settings select.
package renderer

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/lbuffer"
	"github.com/Carmen-Shannon/lumen/engine/model"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Renderer draws a scene once per frame.
type Renderer interface {
	// Render updates the camera and model buffers, renders every active camera, then draws
	// the sprites over the whole display. A failing camera aborts only its own pass chain;
	// the remaining cameras and the sprite pass still run.
	//
	// Parameters:
	//   - s: the scene to render
	//
	// Returns:
	//   - error: the first error encountered, if any
	Render(s scene.Scene) error

	// BindPersistentState uploads the game buffer derived from the display configuration
	// and binds it to gpu.SlotGame. It must be called again after the display changes.
	//
	// Returns:
	//   - error: an error if the upload or bind fails
	BindPersistentState() error

	// Display returns the current display configuration.
	Display() DisplayConfiguration

	// SetDisplay replaces the display configuration and rebinds the persistent state.
	//
	// Parameters:
	//   - display: the new display configuration
	//
	// Returns:
	//   - error: an error if the persistent state cannot be rebound
	SetDisplay(display DisplayConfiguration) error

	// LBuffer returns the light buffer of the most recently rendered camera.
	LBuffer() *lbuffer.LBuffer
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	ctx     gpu.Context
	output  OutputManager
	display DisplayConfiguration
	vct     bool

	lbufferPass        LBufferPass
	forwardPass        ForwardPass
	deferredPass       DeferredPass
	skyPass            SkyPass
	voxelizationPass   VoxelizationPass
	voxelGridPass      VoxelGridPass
	boundingVolumePass BoundingVolumePass
	aaPass             AAPass
	dofPass            DOFPass
	backBufferPass     BackBufferPass
	spritePass         SpritePass

	// updateWorkers bounds the goroutines marshaling model payloads in UpdateBuffers.
	updateWorkers int
	updatePool    worker.DynamicWorkerPool

	// scratch reused across frames by updateBuffers
	models  []model.Model
	o2w     []mgl32.Mat4
	w2o     []mgl32.Mat4
	payload [][]byte
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer issuing its buffer writes and binds through ctx.
// Every pass not supplied by an option is a no-op, except the LBuffer pass which defaults
// to an lbuffer.Processor on ctx.
//
// Parameters:
//   - ctx: the GPU context; must not be nil
//   - opts: variadic list of RendererBuilderOption functions to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
func NewRenderer(ctx gpu.Context, opts ...RendererBuilderOption) Renderer {
	if ctx == nil {
		panic("renderer: NewRenderer requires a non-nil gpu.Context")
	}
	r := &renderer{
		ctx:                ctx,
		output:             nopOutputManager{},
		display:            DefaultDisplayConfiguration(),
		forwardPass:        nopForwardPass{},
		deferredPass:       nopDeferredPass{},
		skyPass:            nopSkyPass{},
		voxelizationPass:   nopVoxelizationPass{},
		voxelGridPass:      nopVoxelGridPass{},
		boundingVolumePass: nopBoundingVolumePass{},
		aaPass:             nopAAPass{},
		dofPass:            nopDOFPass{},
		backBufferPass:     nopBackBufferPass{},
		spritePass:         nopSpritePass{},
		updateWorkers:      runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lbufferPass == nil {
		r.lbufferPass = lbuffer.NewProcessor(ctx)
	}
	if r.updateWorkers < 1 {
		r.updateWorkers = 1
	}
	r.updatePool = worker.NewDynamicWorkerPool(r.updateWorkers, 256, 1*time.Second)
	return r
}

func (r *renderer) Display() DisplayConfiguration {
	return r.display
}

func (r *renderer) SetDisplay(display DisplayConfiguration) error {
	r.display = display
	return r.BindPersistentState()
}

func (r *renderer) LBuffer() *lbuffer.LBuffer {
	return r.lbufferPass.LBuffer()
}

func (r *renderer) BindPersistentState() error {
	buffer := NewGameBuffer(r.display)
	if err := r.ctx.WriteBuffer(GameBufferKey, 0, buffer.Marshal()); err != nil {
		return errors.Wrap(err, "renderer: upload game buffer")
	}
	if err := r.ctx.BindBuffer(gpu.SlotGame, GameBufferKey); err != nil {
		return errors.Wrap(err, "renderer: bind game buffer")
	}
	return nil
}

func (r *renderer) Render(s scene.Scene) error {
	if err := r.updateBuffers(s); err != nil {
		return err
	}

	var firstErr error
	_ = s.ForEachCamera(func(c camera.Camera) error {
		if c.State() != node.StateActive {
			return nil
		}
		if err := r.renderCamera(s, c); err != nil {
			common.Logger().Warn("renderer: camera aborted", "camera", c.BufferKey(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
		return nil
	})

	if err := r.ctx.BindViewport(r.display.Viewport()); err != nil {
		return errors.Wrap(err, "renderer: bind display viewport")
	}
	if err := r.spritePass.Render(s); err != nil {
		return errors.Wrap(err, "renderer: sprite pass")
	}
	return firstErr
}

// updateBuffers uploads the buffer of every active camera, then of every active model.
// Model payloads are marshaled on the worker pool and written serially in scene order.
func (r *renderer) updateBuffers(s scene.Scene) error {
	ssFactor := r.display.SSFactor()
	if err := s.ForEachCamera(func(c camera.Camera) error {
		if c.State() != node.StateActive {
			return nil
		}
		owner := c.Owner()
		if err := c.UpdateBuffer(r.ctx, s.WorldToObject(owner), s.ObjectToWorld(owner), ssFactor); err != nil {
			return errors.Wrapf(err, "renderer: update camera buffer %s", c.BufferKey())
		}
		return nil
	}); err != nil {
		return err
	}

	// World matrices are resolved serially since resolving them fills the graph caches.
	r.models = r.models[:0]
	r.o2w = r.o2w[:0]
	r.w2o = r.w2o[:0]
	_ = s.ForEachModel(func(m model.Model) error {
		if m.State() != node.StateActive {
			return nil
		}
		owner := m.Owner()
		r.models = append(r.models, m)
		r.o2w = append(r.o2w, s.ObjectToWorld(owner))
		r.w2o = append(r.w2o, s.WorldToObject(owner))
		return nil
	})
	if len(r.models) == 0 {
		return nil
	}

	if cap(r.payload) < len(r.models) {
		r.payload = make([][]byte, len(r.models))
	}
	r.payload = r.payload[:len(r.models)]

	// A WaitGroup gives the per-frame barrier; the pool keeps its workers between frames.
	var wg sync.WaitGroup
	for i, m := range r.models {
		wg.Add(1)
		r.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				r.payload[i] = m.BufferData(r.o2w[i], r.w2o[i])
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, m := range r.models {
		write := gpu.BufferWrite{Key: m.BufferKey(), Data: r.payload[i]}
		if err := write.Apply(r.ctx); err != nil {
			return errors.Wrapf(err, "renderer: update model buffer %s", m.BufferKey())
		}
	}
	return nil
}

// cameraFrame carries the matrices of the camera being rendered through the pass chain.
type cameraFrame struct {
	camera            camera.Camera
	settings          *camera.Settings
	worldToCamera     mgl32.Mat4
	cameraToWorld     mgl32.Mat4
	worldToProjection mgl32.Mat4
}

func (r *renderer) renderCamera(s scene.Scene, c camera.Camera) error {
	if err := r.ctx.BindBuffer(gpu.SlotPrimaryCamera, c.BufferKey()); err != nil {
		return errors.Wrapf(err, "renderer: bind camera %s", c.BufferKey())
	}

	owner := c.Owner()
	f := cameraFrame{
		camera:        c,
		settings:      c.Settings(),
		worldToCamera: s.WorldToObject(owner),
		cameraToWorld: s.ObjectToWorld(owner),
	}
	f.worldToProjection = c.CameraToProjectionMatrix().Mul4(f.worldToCamera)

	if err := r.output.BindBegin(); err != nil {
		return errors.Wrap(err, "renderer: begin")
	}

	var err error
	mode := f.settings.RenderMode
	if falseColor, ok := mode.FalseColor(); ok {
		err = r.renderFalseColor(s, f, falseColor)
	} else {
		switch mode {
		case camera.RenderModeForward:
			err = r.renderForward(s, f)
		case camera.RenderModeDeferred:
			err = r.renderDeferred(s, f)
		case camera.RenderModeSolid:
			err = r.renderSolid(s, f)
		case camera.RenderModeVoxelGrid:
			err = r.renderVoxelGrid(s, f)
		default:
			err = r.beginForward(f)
		}
	}
	if err != nil {
		return err
	}

	if f.settings.ContainsRenderLayer(camera.RenderLayerWireframe) {
		if err := r.forwardPass.RenderWireframe(s, f.worldToProjection, f.worldToCamera); err != nil {
			return errors.Wrap(err, "renderer: wireframe")
		}
	}
	if f.settings.ContainsRenderLayer(camera.RenderLayerAABB) {
		if err := r.boundingVolumePass.Render(s, f.worldToProjection, f.worldToCamera); err != nil {
			return errors.Wrap(err, "renderer: bounding volumes")
		}
	}
	if err := r.output.BindEndForward(); err != nil {
		return errors.Wrap(err, "renderer: end forward")
	}

	if err := r.renderAA(c); err != nil {
		return err
	}
	if err := r.renderPostProcessing(c); err != nil {
		return err
	}

	if err := r.output.BindEnd(); err != nil {
		return errors.Wrap(err, "renderer: end")
	}
	if err := r.backBufferPass.Render(); err != nil {
		return errors.Wrap(err, "renderer: back buffer")
	}
	return nil
}

func (r *renderer) renderLBuffer(s scene.Scene, f cameraFrame) error {
	if err := r.lbufferPass.Render(s, f.settings.Fog, f.worldToProjection, f.worldToCamera, f.cameraToWorld); err != nil {
		return errors.Wrap(err, "renderer: lbuffer")
	}
	return nil
}

// worldToVoxel maps the voxel grid centered at the world origin onto the unit cube.
func worldToVoxel() mgl32.Mat4 {
	r := VoxelGridResolution * 0.5 * VoxelSize
	return common.OrthographicOffCenter(-r, r, -r, r, -r, r)
}

func (r *renderer) renderVoxelization(s scene.Scene, f cameraFrame) error {
	if err := r.voxelizationPass.Render(s, worldToVoxel(), f.settings.BRDF, VoxelGridResolution); err != nil {
		return errors.Wrap(err, "renderer: voxelization")
	}
	return nil
}

// beginForward binds the super-sampled viewport and the forward targets.
func (r *renderer) beginForward(f cameraFrame) error {
	if err := r.ctx.BindViewport(f.camera.SSViewport(r.display.SSFactor())); err != nil {
		return errors.Wrap(err, "renderer: bind ss viewport")
	}
	if err := r.output.BindBeginForward(); err != nil {
		return errors.Wrap(err, "renderer: begin forward")
	}
	return nil
}

func (r *renderer) renderForward(s scene.Scene, f cameraFrame) error {
	if err := r.renderLBuffer(s, f); err != nil {
		return err
	}
	if r.vct {
		if err := r.renderVoxelization(s, f); err != nil {
			return err
		}
	}
	if err := r.beginForward(f); err != nil {
		return err
	}
	if err := r.forwardPass.Render(s, f.worldToProjection, f.worldToCamera, f.settings.BRDF, r.vct); err != nil {
		return errors.Wrap(err, "renderer: forward opaque")
	}
	if err := r.skyPass.Render(f.settings.Sky); err != nil {
		return errors.Wrap(err, "renderer: sky")
	}
	if err := r.forwardPass.RenderTransparent(s, f.worldToProjection, f.worldToCamera, f.settings.BRDF, r.vct); err != nil {
		return errors.Wrap(err, "renderer: forward transparent")
	}
	return nil
}

func (r *renderer) renderDeferred(s scene.Scene, f cameraFrame) error {
	if err := r.renderLBuffer(s, f); err != nil {
		return err
	}
	if r.vct {
		if err := r.renderVoxelization(s, f); err != nil {
			return err
		}
	}

	ssViewport := f.camera.SSViewport(r.display.SSFactor())
	if err := r.ctx.BindViewport(ssViewport); err != nil {
		return errors.Wrap(err, "renderer: bind ss viewport")
	}
	if err := r.output.BindBeginGBuffer(); err != nil {
		return errors.Wrap(err, "renderer: begin gbuffer")
	}
	if err := r.deferredPass.RenderGBuffer(s, f.worldToProjection, f.worldToCamera); err != nil {
		return errors.Wrap(err, "renderer: gbuffer")
	}
	if err := r.output.BindEndGBuffer(); err != nil {
		return errors.Wrap(err, "renderer: end gbuffer")
	}

	if err := r.output.BindBeginDeferred(); err != nil {
		return errors.Wrap(err, "renderer: begin deferred")
	}
	// A multisampled GBuffer cannot be read by the compute shader, so it is shaded per sample
	// with a full-screen draw instead.
	if r.display.UsesMSAA() {
		if err := r.deferredPass.Render(f.settings.BRDF, r.vct); err != nil {
			return errors.Wrap(err, "renderer: deferred render")
		}
	} else {
		if err := r.deferredPass.Dispatch(ssViewport, f.settings.BRDF, r.vct); err != nil {
			return errors.Wrap(err, "renderer: deferred dispatch")
		}
	}
	if err := r.output.BindEndDeferred(); err != nil {
		return errors.Wrap(err, "renderer: end deferred")
	}

	if err := r.output.BindBeginForward(); err != nil {
		return errors.Wrap(err, "renderer: begin forward")
	}
	if err := r.forwardPass.RenderEmissive(s, f.worldToProjection, f.worldToCamera); err != nil {
		return errors.Wrap(err, "renderer: forward emissive")
	}
	if err := r.skyPass.Render(f.settings.Sky); err != nil {
		return errors.Wrap(err, "renderer: sky")
	}
	if err := r.forwardPass.RenderTransparent(s, f.worldToProjection, f.worldToCamera, f.settings.BRDF, r.vct); err != nil {
		return errors.Wrap(err, "renderer: forward transparent")
	}
	return nil
}

// renderSolid draws unlit geometry, so the light buffer is built without shadow maps.
func (r *renderer) renderSolid(s scene.Scene, f cameraFrame) error {
	if err := r.lbufferPass.RenderUnshadowed(s, f.settings.Fog, f.worldToProjection, f.worldToCamera, f.cameraToWorld); err != nil {
		return errors.Wrap(err, "renderer: lbuffer")
	}
	if err := r.beginForward(f); err != nil {
		return err
	}
	if err := r.forwardPass.RenderSolid(s, f.worldToProjection, f.worldToCamera); err != nil {
		return errors.Wrap(err, "renderer: solid")
	}
	return nil
}

func (r *renderer) renderFalseColor(s scene.Scene, f cameraFrame, falseColor camera.FalseColor) error {
	if err := r.beginForward(f); err != nil {
		return err
	}
	if err := r.forwardPass.RenderFalseColor(s, f.worldToProjection, f.worldToCamera, falseColor); err != nil {
		return errors.Wrapf(err, "renderer: false color %d", falseColor)
	}
	return nil
}

func (r *renderer) renderVoxelGrid(s scene.Scene, f cameraFrame) error {
	if err := r.renderLBuffer(s, f); err != nil {
		return err
	}
	if err := r.renderVoxelization(s, f); err != nil {
		return err
	}
	if err := r.beginForward(f); err != nil {
		return err
	}
	if err := r.voxelGridPass.Render(f.worldToProjection, VoxelGridResolution); err != nil {
		return errors.Wrap(err, "renderer: voxel grid")
	}
	return nil
}

func (r *renderer) renderAA(c camera.Camera) error {
	aa := r.display.AA
	viewport := c.SSViewport(r.display.SSFactor())

	switch aa {
	case AAFXAA:
		if err := r.output.BindBeginResolve(); err != nil {
			return errors.Wrap(err, "renderer: begin resolve")
		}
		if err := r.aaPass.DispatchPreprocess(viewport, aa); err != nil {
			return errors.Wrap(err, "renderer: aa preprocess")
		}
		if err := r.output.BindEndResolve(); err != nil {
			return errors.Wrap(err, "renderer: end resolve")
		}
		if err := r.output.BindPingPong(); err != nil {
			return errors.Wrap(err, "renderer: ping pong")
		}
		if err := r.aaPass.Dispatch(viewport, aa); err != nil {
			return errors.Wrap(err, "renderer: fxaa")
		}
	case AAMSAA2x, AAMSAA4x, AAMSAA8x, AASSAA2x, AASSAA3x, AASSAA4x:
		if err := r.output.BindBeginResolve(); err != nil {
			return errors.Wrap(err, "renderer: begin resolve")
		}
		if err := r.aaPass.Dispatch(viewport, aa); err != nil {
			return errors.Wrapf(err, "renderer: resolve %s", aa)
		}
		if err := r.output.BindEndResolve(); err != nil {
			return errors.Wrap(err, "renderer: end resolve")
		}
	}
	return nil
}

func (r *renderer) renderPostProcessing(c camera.Camera) error {
	if err := r.ctx.BindViewport(c.Viewport()); err != nil {
		return errors.Wrap(err, "renderer: bind viewport")
	}
	if err := r.output.BindBeginPostProcessing(); err != nil {
		return errors.Wrap(err, "renderer: begin post-processing")
	}
	if !c.Lens().HasFiniteAperture() {
		return nil
	}
	if err := r.output.BindPingPong(); err != nil {
		return errors.Wrap(err, "renderer: ping pong")
	}
	if err := r.dofPass.Dispatch(c.Viewport(), c.Lens()); err != nil {
		return errors.Wrap(err, "renderer: depth of field")
	}
	return nil
}
