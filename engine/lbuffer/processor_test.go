package lbuffer

import (
	"fmt"
	"math"
	"testing"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/light"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/Carmen-Shannon/lumen/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	log       []string
	writes    map[gpu.BufferKey][]byte
	failWrite gpu.BufferKey
	failShade bool
}

func (r *recorder) WriteBuffer(key gpu.BufferKey, _ uint64, data []byte) error {
	if key == r.failWrite {
		return errors.New("write failed")
	}
	if r.writes == nil {
		r.writes = map[gpu.BufferKey][]byte{}
	}
	r.writes[key] = data
	if key == DefaultBufferKey {
		r.log = append(r.log, "write:lbuffer")
	}
	return nil
}

func (r *recorder) BindBuffer(slot gpu.Slot, key gpu.BufferKey) error {
	if slot == gpu.SlotLightBuffer {
		r.log = append(r.log, "bind:lbuffer")
	}
	return nil
}

func (r *recorder) BindViewport(gpu.Viewport) error { return nil }

func (r *recorder) Prepare(d, o, s int) error {
	r.log = append(r.log, fmt.Sprintf("prepare:%d/%d/%d", d, o, s))
	return nil
}

func (r *recorder) Render(_ scene.Scene, target ShadowMapTarget, _ mgl32.Mat4) error {
	if r.failShade {
		return errors.New("depth pass failed")
	}
	r.log = append(r.log, fmt.Sprintf("shadow:%s:%d:%d", target.Kind, target.Index, target.Face))
	return nil
}

var (
	identity   = mgl32.Ident4()
	projection = common.Perspective(math.Pi/2, 1, 0.1, 100)
)

func addLight(s scene.Scene, name string, pos mgl32.Vec3, c node.Component) {
	h := s.CreateNodeWithTransform(name, transform.WithTranslation(pos))
	s.Graph().AddComponent(h, c)
}

func TestBucketsByKindAndShadow(t *testing.T) {
	s := scene.NewScene("lights")
	sun := light.NewDirectionalLight(light.WithShadows(true))
	fill := light.NewDirectionalLight()
	omni := light.NewOmniLight()
	spot := light.NewSpotLight(light.WithShadows(true))
	addLight(s, "sun", mgl32.Vec3{}, sun)
	addLight(s, "fill", mgl32.Vec3{}, fill)
	addLight(s, "omni", mgl32.Vec3{0, 0, -5}, omni)
	addLight(s, "spot", mgl32.Vec3{0, 0, -5}, spot)

	r := &recorder{}
	p := NewProcessor(r, WithShadowMapPass(r))
	require.NoError(t, p.Render(s, camera.Fog{Density: 0.5}, projection, identity, identity))

	c := p.LBuffer().Counts()
	assert.Equal(t, Counts{Directional: 1, Omni: 1, ShadowedDirectional: 1, ShadowedSpot: 1}, c)
	assert.Equal(t, float32(0.5), p.LBuffer().Fog.Density)

	neg := p.LBuffer().ShadowedDirectionalLights[0].NegDirection
	assert.InDelta(t, 1, neg[2], 1e-6, "directional lights store the direction towards the light")
	assert.Equal(t, mgl32.Vec3{0, 0, -5}, p.LBuffer().OmniLights[0].Position)
	assert.Len(t, r.writes[DefaultBufferKey], p.LBuffer().Size())
}

func TestShadowMapsAreRenderedBeforeUpload(t *testing.T) {
	s := scene.NewScene("lights")
	addLight(s, "sun", mgl32.Vec3{}, light.NewDirectionalLight(light.WithShadows(true)))
	addLight(s, "bulb", mgl32.Vec3{0, 0, -5}, light.NewOmniLight(light.WithShadows(true)))

	r := &recorder{}
	p := NewProcessor(r, WithShadowMapPass(r))
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))

	want := []string{"prepare:1/1/0", "shadow:directional:0:0"}
	for face := 0; face < light.OmniShadowFaces; face++ {
		want = append(want, fmt.Sprintf("shadow:omni:0:%d", face))
	}
	want = append(want, "write:lbuffer", "bind:lbuffer")
	assert.Equal(t, want, r.log)
}

func TestOmniAndSpotLightsAreCulled(t *testing.T) {
	s := scene.NewScene("lights")
	addLight(s, "behind", mgl32.Vec3{0, 0, 50}, light.NewOmniLight())
	addLight(s, "far", mgl32.Vec3{0, 0, -500}, light.NewSpotLight())
	addLight(s, "sun", mgl32.Vec3{0, 0, 500}, light.NewDirectionalLight())

	r := &recorder{}
	p := NewProcessor(r)
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))
	assert.Equal(t, Counts{Directional: 1}, p.LBuffer().Counts(), "directional lights are never culled")
}

func TestPassiveLightsAreSkipped(t *testing.T) {
	s := scene.NewScene("lights")
	h := s.CreateNode("sun", light.NewDirectionalLight())
	s.Graph().SetState(h, node.StatePassive)

	p := NewProcessor(&recorder{})
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))
	assert.Zero(t, p.LBuffer().Counts().Total())
}

func TestLBufferIsRebuiltEveryRender(t *testing.T) {
	s := scene.NewScene("lights")
	addLight(s, "a", mgl32.Vec3{0, 0, -3}, light.NewOmniLight())

	p := NewProcessor(&recorder{})
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))
	assert.Equal(t, 1, p.LBuffer().Counts().Omni)
}

func TestNoLightCap(t *testing.T) {
	s := scene.NewScene("lights")
	for i := 0; i < 2000; i++ {
		addLight(s, "l", mgl32.Vec3{0, 0, -5}, light.NewOmniLight())
	}
	p := NewProcessor(&recorder{})
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))
	assert.Equal(t, 2000, p.LBuffer().Counts().Omni)
}

func TestRenderErrors(t *testing.T) {
	s := scene.NewScene("lights")
	addLight(s, "sun", mgl32.Vec3{}, light.NewDirectionalLight(light.WithShadows(true)))

	r := &recorder{failShade: true}
	err := NewProcessor(r, WithShadowMapPass(r)).Render(s, camera.Fog{}, projection, identity, identity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth pass failed")
	assert.NotContains(t, r.log, "write:lbuffer")

	r = &recorder{failWrite: DefaultBufferKey}
	err = NewProcessor(r).Render(s, camera.Fog{}, projection, identity, identity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lbuffer: upload")
}

func TestNewProcessorRequiresContext(t *testing.T) {
	assert.Panics(t, func() { NewProcessor(nil) })
}

func TestRenderUnshadowedFilesEveryLightAsUnshadowed(t *testing.T) {
	s := scene.NewScene("lights")
	addLight(s, "sun", mgl32.Vec3{}, light.NewDirectionalLight(light.WithShadows(true)))
	addLight(s, "bulb", mgl32.Vec3{0, 0, -5}, light.NewOmniLight(light.WithShadows(true)))

	r := &recorder{}
	p := NewProcessor(r, WithShadowMapPass(r))
	require.NoError(t, p.RenderUnshadowed(s, camera.Fog{}, projection, identity, identity))

	assert.Equal(t, Counts{Directional: 1, Omni: 1}, p.LBuffer().Counts())
	assert.Equal(t, []string{"write:lbuffer", "bind:lbuffer"}, r.log, "no shadow map is prepared or rendered")

	r.log = nil
	require.NoError(t, p.Render(s, camera.Fog{}, projection, identity, identity))
	assert.Equal(t, Counts{ShadowedDirectional: 1, ShadowedOmni: 1}, p.LBuffer().Counts())
}
