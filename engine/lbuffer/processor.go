package lbuffer

import (
	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/camera"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/Carmen-Shannon/lumen/engine/light"
	"github.com/Carmen-Shannon/lumen/engine/node"
	"github.com/Carmen-Shannon/lumen/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// DefaultBufferKey is the GPU buffer the processor uploads the LBuffer to.
const DefaultBufferKey gpu.BufferKey = "lbuffer"

// Processor builds the LBuffer for a camera and renders the shadow maps it references.
type Processor interface {
	// Render rebuilds the LBuffer from the scene's active lights, renders every shadow
	// map, then uploads the LBuffer and binds it to gpu.SlotLightBuffer. Every shadow map
	// is complete when Render returns, so passes issued afterwards may sample them.
	//
	// Parameters:
	//   - s: the scene
	//   - fog: the fog of the camera being rendered
	//   - worldToProjection: the camera's world-to-projection matrix, used for culling
	//   - worldToCamera: the camera's world-to-view matrix
	//   - cameraToWorld: the camera's view-to-world matrix
	//
	// Returns:
	//   - error: the first error from a shadow map or GPU call
	Render(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error

	// RenderUnshadowed rebuilds and uploads the LBuffer like Render, but files every light
	// under its unshadowed bucket and renders no shadow map.
	//
	// Returns:
	//   - error: the first error from a GPU call
	RenderUnshadowed(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error

	// LBuffer returns the buffer built by the last Render.
	LBuffer() *LBuffer
}

// processor is the implementation of the Processor interface.
type processor struct {
	ctx     gpu.Context
	shadows ShadowMapPass
	key     gpu.BufferKey
	buffer  LBuffer

	// shadowed is false while RenderUnshadowed runs
	shadowed bool

	// pending shadow map jobs collected while bucketing
	jobs []shadowJob
}

// shadowJob is one light camera that needs its shadow map rendered.
type shadowJob struct {
	target            ShadowMapTarget
	lightCamera       camera.Camera
	worldToLight      mgl32.Mat4
	lightToWorld      mgl32.Mat4
	worldToProjection mgl32.Mat4
}

var _ Processor = &processor{}

// NewProcessor creates a Processor that uploads through ctx. ctx must not be nil.
//
// Parameters:
//   - ctx: the GPU context
//   - opts: variadic list of ProcessorBuilderOption functions
//
// Returns:
//   - Processor: the new processor
func NewProcessor(ctx gpu.Context, opts ...ProcessorBuilderOption) Processor {
	if ctx == nil {
		panic("lbuffer: NewProcessor requires a non-nil gpu.Context")
	}
	p := &processor{
		ctx:     ctx,
		shadows: nopShadowMapPass{},
		key:     DefaultBufferKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *processor) LBuffer() *LBuffer {
	return &p.buffer
}

func (p *processor) Render(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error {
	p.shadowed = true
	return p.render(s, fog, worldToProjection, worldToCamera, cameraToWorld)
}

func (p *processor) RenderUnshadowed(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error {
	p.shadowed = false
	return p.render(s, fog, worldToProjection, worldToCamera, cameraToWorld)
}

// castShadows reports whether l goes into a shadowed bucket during the current render.
func (p *processor) castShadows(l light.Light) bool {
	return p.shadowed && l.UseShadows()
}

func (p *processor) render(s scene.Scene, fog camera.Fog, worldToProjection, worldToCamera, cameraToWorld mgl32.Mat4) error {
	p.buffer.Reset()
	p.buffer.Fog = fog
	p.jobs = p.jobs[:0]

	frustum := common.ExtractFrustum(worldToProjection)
	g := s.Graph()

	if err := s.ForEachDirectionalLight(func(l light.DirectionalLight) error {
		if l.State() != node.StateActive {
			return nil
		}
		p.processDirectional(g, l, worldToCamera, cameraToWorld)
		return nil
	}); err != nil {
		return err
	}
	if err := s.ForEachOmniLight(func(l light.OmniLight) error {
		if l.State() != node.StateActive {
			return nil
		}
		p.processOmni(g, &frustum, l, worldToCamera, cameraToWorld)
		return nil
	}); err != nil {
		return err
	}
	if err := s.ForEachSpotLight(func(l light.SpotLight) error {
		if l.State() != node.StateActive {
			return nil
		}
		p.processSpot(g, &frustum, l, worldToCamera, cameraToWorld)
		return nil
	}); err != nil {
		return err
	}

	if p.shadowed {
		if err := p.renderShadowMaps(s); err != nil {
			return err
		}
	}

	if err := p.ctx.WriteBuffer(p.key, 0, p.buffer.Marshal()); err != nil {
		return errors.Wrap(err, "lbuffer: upload")
	}
	if err := p.ctx.BindBuffer(gpu.SlotLightBuffer, p.key); err != nil {
		return errors.Wrap(err, "lbuffer: bind")
	}

	c := p.buffer.Counts()
	common.Logger().Debug("lbuffer: processed lights",
		"directional", c.Directional+c.ShadowedDirectional,
		"omni", c.Omni+c.ShadowedOmni,
		"spot", c.Spot+c.ShadowedSpot,
		"shadow_maps", len(p.jobs))
	return nil
}

func (p *processor) processDirectional(g *node.Graph, l light.DirectionalLight, worldToCamera, cameraToWorld mgl32.Mat4) {
	owner := l.Owner()
	// The light shines along its owner's -z axis, so +z points back at the light.
	negDirection := common.TransformDirection(worldToCamera, g.WorldAxisZ(owner)).Normalize()
	entry := DirectionalLightEntry{NegDirection: negDirection, Radiance: l.Radiance()}

	if !p.castShadows(l) {
		p.buffer.DirectionalLights = append(p.buffer.DirectionalLights, entry)
		return
	}

	worldToLight := g.WorldToObjectMatrix(owner)
	lightToProjection := l.LightCamera().CameraToProjectionMatrix()
	worldToLightProjection := lightToProjection.Mul4(worldToLight)
	index := len(p.buffer.ShadowedDirectionalLights)
	p.buffer.ShadowedDirectionalLights = append(p.buffer.ShadowedDirectionalLights, ShadowedDirectionalLightEntry{
		DirectionalLightEntry: entry,
		Shadow: Shadow{
			CameraToLightProjection: worldToLightProjection.Mul4(cameraToWorld),
			ShadowMap:               index,
		},
	})
	p.jobs = append(p.jobs, shadowJob{
		target:            ShadowMapTarget{Kind: ShadowMapDirectional, Index: index},
		lightCamera:       l.LightCamera(),
		worldToLight:      worldToLight,
		lightToWorld:      g.ObjectToWorldMatrix(owner),
		worldToProjection: worldToLightProjection,
	})
}

func (p *processor) processOmni(g *node.Graph, frustum *common.Frustum, l light.OmniLight, worldToCamera, cameraToWorld mgl32.Mat4) {
	owner := l.Owner()
	objectToWorld := g.ObjectToWorldMatrix(owner)
	if !frustum.ContainsSphere(l.BoundingSphere().Transform(objectToWorld)) {
		return
	}

	worldPosition := objectToWorld.Col(3).Vec3()
	entry := OmniLightEntry{
		Position:             common.TransformPoint(worldToCamera, worldPosition),
		Radiance:             l.Radiance(),
		StartDistanceFalloff: l.StartDistanceFalloff(),
		EndDistanceFalloff:   l.EndDistanceFalloff(),
	}

	if !p.castShadows(l) {
		p.buffer.OmniLights = append(p.buffer.OmniLights, entry)
		return
	}

	// Cube maps are sampled with world-aligned directions, so the light's own rotation
	// does not take part in the shadow transform.
	worldToLight := mgl32.Translate3D(-worldPosition[0], -worldPosition[1], -worldPosition[2])
	lightToProjection := l.LightCamera().CameraToProjectionMatrix()
	index := len(p.buffer.ShadowedOmniLights)
	p.buffer.ShadowedOmniLights = append(p.buffer.ShadowedOmniLights, ShadowedOmniLightEntry{
		OmniLightEntry: entry,
		Shadow: Shadow{
			CameraToLightProjection: lightToProjection.Mul4(worldToLight).Mul4(cameraToWorld),
			ShadowMap:               index,
		},
	})
	for face, f := range cubeFaces {
		worldToFace := mgl32.LookAtV(worldPosition, worldPosition.Add(f.dir), f.up)
		p.jobs = append(p.jobs, shadowJob{
			target:            ShadowMapTarget{Kind: ShadowMapOmni, Index: index, Face: face},
			lightCamera:       l.LightCamera(),
			worldToLight:      worldToFace,
			lightToWorld:      worldToFace.Inv(),
			worldToProjection: lightToProjection.Mul4(worldToFace),
		})
	}
}

func (p *processor) processSpot(g *node.Graph, frustum *common.Frustum, l light.SpotLight, worldToCamera, cameraToWorld mgl32.Mat4) {
	owner := l.Owner()
	objectToWorld := g.ObjectToWorldMatrix(owner)
	if !frustum.ContainsAABB(l.AABB().Transform(objectToWorld)) {
		return
	}

	entry := SpotLightEntry{
		Position:             common.TransformPoint(worldToCamera, objectToWorld.Col(3).Vec3()),
		NegDirection:         common.TransformDirection(worldToCamera, g.WorldAxisZ(owner)).Normalize(),
		Radiance:             l.Radiance(),
		StartDistanceFalloff: l.StartDistanceFalloff(),
		EndDistanceFalloff:   l.EndDistanceFalloff(),
		CosPenumbra:          l.CosPenumbra(),
		CosUmbra:             l.CosUmbra(),
	}

	if !p.castShadows(l) {
		p.buffer.SpotLights = append(p.buffer.SpotLights, entry)
		return
	}

	worldToLight := g.WorldToObjectMatrix(owner)
	lightToProjection := l.LightCamera().CameraToProjectionMatrix()
	worldToLightProjection := lightToProjection.Mul4(worldToLight)
	index := len(p.buffer.ShadowedSpotLights)
	p.buffer.ShadowedSpotLights = append(p.buffer.ShadowedSpotLights, ShadowedSpotLightEntry{
		SpotLightEntry: entry,
		Shadow: Shadow{
			CameraToLightProjection: worldToLightProjection.Mul4(cameraToWorld),
			ShadowMap:               index,
		},
	})
	p.jobs = append(p.jobs, shadowJob{
		target:            ShadowMapTarget{Kind: ShadowMapSpot, Index: index},
		lightCamera:       l.LightCamera(),
		worldToLight:      worldToLight,
		lightToWorld:      objectToWorld,
		worldToProjection: worldToLightProjection,
	})
}

// renderShadowMaps renders every collected shadow map in bucket order: directional,
// omni (six faces each), then spot.
func (p *processor) renderShadowMaps(s scene.Scene) error {
	c := p.buffer.Counts()
	if err := p.shadows.Prepare(c.ShadowedDirectional, c.ShadowedOmni, c.ShadowedSpot); err != nil {
		return errors.Wrap(err, "lbuffer: prepare shadow maps")
	}
	for _, job := range p.jobs {
		if err := job.lightCamera.UpdateBuffer(p.ctx, job.worldToLight, job.lightToWorld, 1); err != nil {
			return errors.Wrapf(err, "lbuffer: %s shadow map %d", job.target.Kind, job.target.Index)
		}
		if err := p.ctx.BindBuffer(gpu.SlotSecondaryCamera, job.lightCamera.BufferKey()); err != nil {
			return errors.Wrapf(err, "lbuffer: %s shadow map %d", job.target.Kind, job.target.Index)
		}
		if err := p.shadows.Render(s, job.target, job.worldToProjection); err != nil {
			return errors.Wrapf(err, "lbuffer: %s shadow map %d face %d", job.target.Kind, job.target.Index, job.target.Face)
		}
	}
	return nil
}
