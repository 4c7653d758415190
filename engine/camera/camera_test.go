package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	writes map[gpu.BufferKey][]byte
	err    error
}

func (f *fakeContext) WriteBuffer(key gpu.BufferKey, _ uint64, data []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.writes == nil {
		f.writes = map[gpu.BufferKey][]byte{}
	}
	f.writes[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeContext) BindBuffer(gpu.Slot, gpu.BufferKey) error { return nil }
func (f *fakeContext) BindViewport(gpu.Viewport) error          { return nil }

func TestRenderModeFalseColor(t *testing.T) {
	fc, ok := RenderModeFalseColorBaseColor.FalseColor()
	require.True(t, ok)
	assert.Equal(t, FalseColorBaseColor, fc)

	fc, ok = RenderModeFalseColorUV.FalseColor()
	require.True(t, ok)
	assert.Equal(t, FalseColorUV, fc)

	fc, ok = RenderModeFalseColorTSNMShadingNormal.FalseColor()
	require.True(t, ok)
	assert.Equal(t, FalseColorTSNMShadingNormal, fc)

	for _, m := range []RenderMode{RenderModeNone, RenderModeForward, RenderModeDeferred, RenderModeSolid, RenderModeVoxelGrid} {
		_, ok := m.FalseColor()
		assert.False(t, ok, m.String())
	}
}

func TestRenderLayers(t *testing.T) {
	s := DefaultSettings()
	assert.False(t, s.ContainsRenderLayer(RenderLayerWireframe))

	s.AddRenderLayer(RenderLayerWireframe | RenderLayerAABB)
	assert.True(t, s.ContainsRenderLayer(RenderLayerAABB))

	s.RemoveRenderLayer(RenderLayerAABB)
	assert.False(t, s.ContainsRenderLayer(RenderLayerAABB))
	assert.True(t, s.ContainsRenderLayer(RenderLayerWireframe))

	s.ToggleRenderLayer(RenderLayerWireframe)
	assert.Equal(t, RenderLayerNone, s.RenderLayers)
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, node.KindCamera, c.Kind())
	assert.Equal(t, RenderModeForward, c.Settings().RenderMode)
	assert.False(t, c.Lens().HasFiniteAperture())
	assert.True(t, c.Owner().IsNil())
	assert.NotEqual(t, NewCamera().BufferKey(), c.BufferKey())
}

func TestProjectionIsRecomputedOnChange(t *testing.T) {
	c := NewCamera(WithPerspective(math.Pi/2, 1), WithClipPlanes(1, 10))
	p := c.CameraToProjectionMatrix()
	assert.InDelta(t, 1, p[0], 1e-6)
	assert.InDelta(t, 1, p[5], 1e-6)

	// Near plane maps to depth 0, far plane to depth 1.
	near := p.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := p.Mul4x1(mgl32.Vec4{0, 0, -10, 1})
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-5)

	c.SetAspect(2)
	assert.InDelta(t, 0.5, c.CameraToProjectionMatrix()[0], 1e-6)

	id := c.CameraToProjectionMatrix().Mul4(c.ProjectionToCameraMatrix())
	for i, v := range mgl32.Ident4() {
		assert.InDelta(t, v, id[i], 1e-4)
	}
}

func TestOrthographicProjection(t *testing.T) {
	c := NewCamera(WithOrthographic(4, 2), WithClipPlanes(0, 8))
	assert.Equal(t, ProjectionOrthographic, c.Projection())
	p := c.CameraToProjectionMatrix()
	v := p.Mul4x1(mgl32.Vec4{2, 1, -8, 1})
	assert.InDelta(t, 1, v[0], 1e-6)
	assert.InDelta(t, 1, v[1], 1e-6)
	assert.InDelta(t, 1, v[2], 1e-6)
}

func TestSSViewport(t *testing.T) {
	c := NewCamera(WithViewport(gpu.NewViewport(0, 0, 640, 480)))
	ss := c.SSViewport(2)
	assert.Equal(t, float32(1280), ss.Width)
	assert.Equal(t, float32(960), ss.Height)
	assert.Equal(t, float32(640), c.Viewport().Width)
}

func TestUpdateBuffer(t *testing.T) {
	c := NewCamera()
	ctx := &fakeContext{}
	require.NoError(t, c.UpdateBuffer(ctx, mgl32.Ident4(), mgl32.Ident4(), 1))
	assert.Len(t, ctx.writes[c.BufferKey()], GPUCameraBufferSize)

	ctx.err = errors.New("device lost")
	err := c.UpdateBuffer(ctx, mgl32.Ident4(), mgl32.Ident4(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
}
