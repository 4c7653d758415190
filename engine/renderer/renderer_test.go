package renderer

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/lbuffer"
	"github.com/Carmen-Shannon/lumen/engine/light"
	"github.com/Carmen-Shannon/lumen/engine/model"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/Carmen-Shannon/lumen/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trace is the shared event log of every recording fake. An event equal to fail makes the
// call that logged it return an error.
type trace struct {
	log    []string
	fail   string
	writes map[gpu.BufferKey][]byte
}

func (t *trace) add(event string) error {
	t.log = append(t.log, event)
	if event == t.fail {
		return errors.Errorf("%s failed", event)
	}
	return nil
}

type contextRecorder struct{ *trace }

func (c contextRecorder) WriteBuffer(key gpu.BufferKey, _ uint64, data []byte) error {
	if c.writes == nil {
		c.writes = map[gpu.BufferKey][]byte{}
	}
	c.writes[key] = data
	if key == lbuffer.DefaultBufferKey {
		return c.add("lbuffer")
	}
	return nil
}

func (c contextRecorder) BindBuffer(slot gpu.Slot, key gpu.BufferKey) error {
	if slot == gpu.SlotPrimaryCamera {
		return c.add("camera:" + string(key))
	}
	return nil
}

func (c contextRecorder) BindViewport(v gpu.Viewport) error {
	return c.add(fmt.Sprintf("viewport:%gx%g", v.Width, v.Height))
}

type outputRecorder struct{ *trace }

func (o outputRecorder) BindBegin() error               { return o.add("BindBegin") }
func (o outputRecorder) BindBeginForward() error        { return o.add("BindBeginForward") }
func (o outputRecorder) BindEndForward() error          { return o.add("BindEndForward") }
func (o outputRecorder) BindBeginGBuffer() error        { return o.add("BindBeginGBuffer") }
func (o outputRecorder) BindEndGBuffer() error          { return o.add("BindEndGBuffer") }
func (o outputRecorder) BindBeginDeferred() error       { return o.add("BindBeginDeferred") }
func (o outputRecorder) BindEndDeferred() error         { return o.add("BindEndDeferred") }
func (o outputRecorder) BindBeginResolve() error        { return o.add("BindBeginResolve") }
func (o outputRecorder) BindEndResolve() error          { return o.add("BindEndResolve") }
func (o outputRecorder) BindPingPong() error            { return o.add("BindPingPong") }
func (o outputRecorder) BindBeginPostProcessing() error { return o.add("BindBeginPostProcessing") }
func (o outputRecorder) BindEnd() error                 { return o.add("BindEnd") }

type shadowRecorder struct{ *trace }

func (s shadowRecorder) Prepare(int, int, int) error { return nil }
func (s shadowRecorder) Render(_ scene.Scene, target lbuffer.ShadowMapTarget, _ mgl32.Mat4) error {
	return s.add(fmt.Sprintf("shadow:%s", target.Kind))
}

type forwardRecorder struct{ *trace }

func (f forwardRecorder) Render(_ scene.Scene, _, _ mgl32.Mat4, _ camera.BRDF, vct bool) error {
	return f.add(fmt.Sprintf("forward:vct=%t", vct))
}
func (f forwardRecorder) RenderTransparent(scene.Scene, mgl32.Mat4, mgl32.Mat4, camera.BRDF, bool) error {
	return f.add("transparent")
}
func (f forwardRecorder) RenderEmissive(scene.Scene, mgl32.Mat4, mgl32.Mat4) error {
	return f.add("emissive")
}
func (f forwardRecorder) RenderSolid(scene.Scene, mgl32.Mat4, mgl32.Mat4) error {
	return f.add("solid")
}
func (f forwardRecorder) RenderFalseColor(_ scene.Scene, _, _ mgl32.Mat4, fc camera.FalseColor) error {
	return f.add(fmt.Sprintf("false-color:%d", fc))
}
func (f forwardRecorder) RenderWireframe(scene.Scene, mgl32.Mat4, mgl32.Mat4) error {
	return f.add("wireframe")
}

type deferredRecorder struct{ *trace }

func (d deferredRecorder) RenderGBuffer(scene.Scene, mgl32.Mat4, mgl32.Mat4) error {
	return d.add("gbuffer")
}
func (d deferredRecorder) Render(camera.BRDF, bool) error { return d.add("deferred:render") }
func (d deferredRecorder) Dispatch(v gpu.Viewport, _ camera.BRDF, _ bool) error {
	return d.add(fmt.Sprintf("deferred:dispatch:%gx%g", v.Width, v.Height))
}

type skyRecorder struct{ *trace }

func (s skyRecorder) Render(camera.Sky) error { return s.add("sky") }

type voxelizationRecorder struct{ *trace }

func (v voxelizationRecorder) Render(_ scene.Scene, _ mgl32.Mat4, _ camera.BRDF, resolution uint32) error {
	return v.add(fmt.Sprintf("voxelize:%d", resolution))
}

type voxelGridRecorder struct{ *trace }

func (v voxelGridRecorder) Render(_ mgl32.Mat4, resolution uint32) error {
	return v.add(fmt.Sprintf("voxel-grid:%d", resolution))
}

type boundingVolumeRecorder struct{ *trace }

func (b boundingVolumeRecorder) Render(scene.Scene, mgl32.Mat4, mgl32.Mat4) error {
	return b.add("aabb")
}

type aaRecorder struct{ *trace }

func (a aaRecorder) DispatchPreprocess(_ gpu.Viewport, aa AADescriptor) error {
	return a.add("aa-preprocess:" + aa.String())
}
func (a aaRecorder) Dispatch(_ gpu.Viewport, aa AADescriptor) error {
	return a.add("aa:" + aa.String())
}

type dofRecorder struct{ *trace }

func (d dofRecorder) Dispatch(gpu.Viewport, camera.Lens) error { return d.add("dof") }

type backBufferRecorder struct{ *trace }

func (b backBufferRecorder) Render() error { return b.add("back-buffer") }

type spriteRecorder struct{ *trace }

func (s spriteRecorder) Render(scene.Scene) error { return s.add("sprite") }

// newRecordingRenderer wires every pass, the output manager, the GPU context and the shadow
// maps of a real lbuffer.Processor to one trace.
func newRecordingRenderer(t *trace, aa AADescriptor, opts ...RendererBuilderOption) Renderer {
	ctx := contextRecorder{t}
	all := []RendererBuilderOption{
		WithDisplay(DisplayConfiguration{Width: 64, Height: 32, AA: aa, Gamma: 2.2}),
		WithOutputManager(outputRecorder{t}),
		WithLBufferPass(lbuffer.NewProcessor(ctx, lbuffer.WithShadowMapPass(shadowRecorder{t}))),
		WithForwardPass(forwardRecorder{t}),
		WithDeferredPass(deferredRecorder{t}),
		WithSkyPass(skyRecorder{t}),
		WithVoxelizationPass(voxelizationRecorder{t}),
		WithVoxelGridPass(voxelGridRecorder{t}),
		WithBoundingVolumePass(boundingVolumeRecorder{t}),
		WithAAPass(aaRecorder{t}),
		WithDOFPass(dofRecorder{t}),
		WithBackBufferPass(backBufferRecorder{t}),
		WithSpritePass(spriteRecorder{t}),
		WithUpdateWorkers(2),
	}
	return NewRenderer(ctx, append(all, opts...)...)
}

// newLitScene creates a scene with one shadowed directional light, one unshadowed omni light
// in view and one camera using opts.
func newLitScene(opts ...camera.CameraBuilderOption) (scene.Scene, camera.Camera) {
	s := scene.NewScene("frame")
	s.CreateNode("sun", light.NewDirectionalLight(light.WithShadows(true)))
	lamp := s.CreateNodeWithTransform("lamp", transform.WithTranslation(mgl32.Vec3{0, 0, -5}))
	s.Graph().AddComponent(lamp, light.NewOmniLight())
	cam := camera.NewCamera(append([]camera.CameraBuilderOption{
		camera.WithViewport(gpu.NewViewport(0, 0, 64, 32)),
	}, opts...)...)
	s.CreateNode("eye", cam)
	return s, cam
}

func TestDeferredWithoutMSAADispatchesAfterShadowMaps(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, cam := newLitScene(camera.WithRenderMode(camera.RenderModeDeferred))

	require.NoError(t, r.Render(s))

	assert.Equal(t, []string{
		"camera:" + string(cam.BufferKey()),
		"BindBegin",
		"shadow:directional",
		"lbuffer",
		"viewport:64x32",
		"BindBeginGBuffer",
		"gbuffer",
		"BindEndGBuffer",
		"BindBeginDeferred",
		"deferred:dispatch:64x32",
		"BindEndDeferred",
		"BindBeginForward",
		"emissive",
		"sky",
		"transparent",
		"BindEndForward",
		"viewport:64x32",
		"BindBeginPostProcessing",
		"BindEnd",
		"back-buffer",
		"viewport:64x32",
		"sprite",
	}, tr.log)
	assert.Equal(t, lbuffer.Counts{ShadowedDirectional: 1, Omni: 1}, r.LBuffer().Counts(),
		"only the shadowed light gets a shadow map")
}

func TestDeferredWithMSAARendersAndResolves(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AAMSAA4x)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeDeferred))

	require.NoError(t, r.Render(s))

	assert.Contains(t, tr.log, "deferred:render")
	assert.NotContains(t, tr.log, "deferred:dispatch:64x32")
	assert.Subset(t, tr.log, []string{"BindBeginResolve", "aa:msaa-4x", "BindEndResolve"})
	assert.Less(t, indexOf(tr.log, "shadow:directional"), indexOf(tr.log, "BindBeginResolve"))
}

func TestForwardSequence(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeForward))

	require.NoError(t, r.Render(s))
	assert.Equal(t, []string{
		"shadow:directional", "lbuffer", "viewport:64x32", "BindBeginForward",
		"forward:vct=false", "sky", "transparent", "BindEndForward",
	}, tr.log[2:10])
	assert.NotContains(t, tr.log, "voxelize:128")
}

func TestForwardWithVoxelConeTracingVoxelizesFirst(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone, WithVoxelConeTracing(true))
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeForward))

	require.NoError(t, r.Render(s))
	assert.Less(t, indexOf(tr.log, "lbuffer"), indexOf(tr.log, "voxelize:128"))
	assert.Less(t, indexOf(tr.log, "voxelize:128"), indexOf(tr.log, "BindBeginForward"))
	assert.Contains(t, tr.log, "forward:vct=true")
}

func TestSolidNeverShadowsNorShades(t *testing.T) {
	for _, aa := range []AADescriptor{AANone, AAMSAA2x, AASSAA2x, AAFXAA} {
		t.Run(aa.String(), func(t *testing.T) {
			tr := &trace{}
			r := newRecordingRenderer(tr, aa)
			s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeSolid))
			bulb := s.CreateNodeWithTransform("bulb", transform.WithTranslation(mgl32.Vec3{0, 0, -5}))
			s.Graph().AddComponent(bulb, light.NewOmniLight(light.WithShadows(true)))

			require.NoError(t, r.Render(s))
			assert.Contains(t, tr.log, "lbuffer")
			assert.Contains(t, tr.log, "solid")
			for _, event := range tr.log {
				assert.NotContains(t, event, "shadow")
				assert.NotContains(t, event, "forward:")
				assert.NotContains(t, event, "deferred")
				assert.NotContains(t, event, "gbuffer")
			}
		})
	}
}

func TestFXAASequence(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AAFXAA)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeForward))

	require.NoError(t, r.Render(s))
	start := indexOf(tr.log, "BindEndForward")
	require.GreaterOrEqual(t, start, 0)
	assert.Equal(t, []string{
		"BindEndForward",
		"BindBeginResolve",
		"aa-preprocess:fxaa",
		"BindEndResolve",
		"BindPingPong",
		"aa:fxaa",
		"viewport:64x32",
		"BindBeginPostProcessing",
	}, tr.log[start:start+8])
}

func TestSSAAUsesScaledViewport(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AASSAA2x)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeDeferred))

	require.NoError(t, r.Render(s))
	assert.Contains(t, tr.log, "deferred:dispatch:128x64")
	assert.Subset(t, tr.log, []string{"BindBeginResolve", "aa:ssaa-2x", "BindEndResolve"})
}

func TestDepthOfFieldRequiresFiniteAperture(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	lens := camera.DefaultLens()
	lens.ApertureRadius = 0.5
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeForward), camera.WithLens(lens))

	require.NoError(t, r.Render(s))
	post := indexOf(tr.log, "BindBeginPostProcessing")
	assert.Equal(t, []string{"BindBeginPostProcessing", "BindPingPong", "dof", "BindEnd"}, tr.log[post:post+4])

	tr.log = nil
	s, _ = newLitScene(camera.WithRenderMode(camera.RenderModeForward))
	require.NoError(t, r.Render(s))
	assert.NotContains(t, tr.log, "dof")
}

func TestRenderLayersDrawBeforeEndForward(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene(
		camera.WithRenderMode(camera.RenderModeSolid),
		camera.WithRenderLayers(camera.RenderLayerWireframe|camera.RenderLayerAABB),
	)

	require.NoError(t, r.Render(s))
	solid := indexOf(tr.log, "solid")
	assert.Equal(t, []string{"solid", "wireframe", "aabb", "BindEndForward"}, tr.log[solid:solid+4])
}

func TestFalseColorSkipsLBuffer(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeFalseColorRoughness))

	require.NoError(t, r.Render(s))
	assert.Contains(t, tr.log, fmt.Sprintf("false-color:%d", camera.FalseColorRoughness))
	assert.NotContains(t, tr.log, "lbuffer")
	assert.NotContains(t, tr.log, "shadow:directional")
}

func TestVoxelGridSequence(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeVoxelGrid))

	require.NoError(t, r.Render(s))
	assert.Equal(t, []string{
		"shadow:directional", "lbuffer", "voxelize:128", "viewport:64x32", "BindBeginForward", "voxel-grid:128",
	}, tr.log[2:8])
}

func TestUnsetRenderModeOnlyBindsForward(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeNone))

	require.NoError(t, r.Render(s))
	assert.Equal(t, []string{"BindBegin", "viewport:64x32", "BindBeginForward", "BindEndForward"}, tr.log[1:5])
}

func TestSpritePassRunsOncePerFrame(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene()
	s.CreateNode("second", camera.NewCamera())

	require.NoError(t, r.Render(s))
	assert.Equal(t, 2, count(tr.log, "BindBegin"))
	assert.Equal(t, 1, count(tr.log, "sprite"))
	assert.Equal(t, "sprite", tr.log[len(tr.log)-1])
}

func TestPassiveCameraIsSkipped(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s, cam := newLitScene()
	s.Graph().SetState(cam.Owner(), node.StatePassive)

	require.NoError(t, r.Render(s))
	assert.Equal(t, []string{"viewport:64x32", "sprite"}, tr.log)
	assert.NotContains(t, tr.writes, cam.BufferKey())
}

func TestErrorAbortsOnlyThatCamera(t *testing.T) {
	tr := &trace{fail: "gbuffer"}
	r := newRecordingRenderer(tr, AANone)
	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeDeferred))
	s.CreateNode("second", camera.NewCamera(camera.WithRenderMode(camera.RenderModeSolid)))

	err := r.Render(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gbuffer failed")

	failed := indexOf(tr.log, "gbuffer")
	assert.NotEqual(t, "BindEndGBuffer", tr.log[failed+1], "the failing camera stops at the failed pass")
	assert.Contains(t, tr.log[failed:], "solid", "the next camera still renders")
	assert.Equal(t, 1, count(tr.log, "back-buffer"))
	assert.Equal(t, "sprite", tr.log[len(tr.log)-1])
}

func TestUpdateBuffersWritesActiveModels(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)
	s := scene.NewScene("models")

	var models []model.Model
	var handles []node.Handle
	for i := 0; i < 8; i++ {
		m := model.NewModel("cube")
		h := s.CreateNodeWithTransform(fmt.Sprintf("cube-%d", i), transform.WithTranslation(mgl32.Vec3{float32(i), 2, 3}))
		s.Graph().AddComponent(h, m)
		models = append(models, m)
		handles = append(handles, h)
	}
	s.Graph().SetState(handles[7], node.StatePassive)

	require.NoError(t, r.Render(s))
	for i, m := range models[:7] {
		want := m.BufferData(s.ObjectToWorld(handles[i]), s.WorldToObject(handles[i]))
		assert.Equal(t, want, tr.writes[m.BufferKey()], "model %d", i)
		assert.Len(t, tr.writes[m.BufferKey()], model.GPUModelBufferSize)
	}
	assert.NotContains(t, tr.writes, models[7].BufferKey())
}

func TestCameraBufferUsesSSFactor(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AASSAA3x)
	s, cam := newLitScene()

	require.NoError(t, r.Render(s))
	assert.Len(t, tr.writes[cam.BufferKey()], camera.GPUCameraBufferSize)
}

func TestBindPersistentState(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AASSAA2x)

	require.NoError(t, r.BindPersistentState())
	want := NewGameBuffer(r.Display()).Marshal()
	assert.Equal(t, want, tr.writes[GameBufferKey])

	display := r.Display()
	display.Width = 128
	require.NoError(t, r.SetDisplay(display))
	assert.Equal(t, uint32(128), r.Display().Width)
	assert.Equal(t, NewGameBuffer(display).Marshal(), tr.writes[GameBufferKey])
}

func TestNewRendererPanicsWithoutContext(t *testing.T) {
	assert.PanicsWithValue(t, "renderer: NewRenderer requires a non-nil gpu.Context", func() {
		NewRenderer(nil)
	})
}

func indexOf(log []string, event string) int {
	for i, e := range log {
		if e == event {
			return i
		}
	}
	return -1
}

func count(log []string, event string) int {
	n := 0
	for _, e := range log {
		if e == event {
			n++
		}
	}
	return n
}

func TestLBufferReflectsLastCamera(t *testing.T) {
	tr := &trace{}
	r := newRecordingRenderer(tr, AANone)

	s, _ := newLitScene(camera.WithRenderMode(camera.RenderModeForward))
	require.NoError(t, r.Render(s))
	assert.Equal(t, lbuffer.Counts{ShadowedDirectional: 1, Omni: 1}, r.LBuffer().Counts())

	s, _ = newLitScene(camera.WithRenderMode(camera.RenderModeSolid))
	require.NoError(t, r.Render(s))
	assert.Equal(t, lbuffer.Counts{Directional: 1, Omni: 1}, r.LBuffer().Counts())
}
