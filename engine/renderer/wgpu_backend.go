package renderer

import (
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/lumen/common"
	"github.com/Carmen-Shannon/lumen/engine/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

const (
	hdrFormat   = wgpu.TextureFormatRGBA16Float
	depthFormat = wgpu.TextureFormatDepth32Float

	// bufferAlignment is the granularity GPU buffers are allocated with.
	bufferAlignment = 256
)

// WGPUBackend is the WebGPU implementation of gpu.Context and OutputManager.
//
// It owns the buffers written through WriteBuffer, the HDR ping-pong targets, the depth
// target, the GBuffer and the swapchain. Passes read the bound resources through the
// accessors and encode their own work on Encoder.
type WGPUBackend interface {
	gpu.Context
	OutputManager

	// ConfigureSurface (re)creates the swapchain and every render target for the display.
	// Must be called before the first frame and whenever the display changes.
	//
	// Parameters:
	//   - display: the display configuration
	//
	// Returns:
	//   - error: an error if a target cannot be created
	ConfigureSurface(display DisplayConfiguration) error

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Present submits the frame's commands and presents the swapchain image.
	// Does nothing if no frame was begun.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	Present() error

	// Release frees every GPU resource owned by the backend.
	Release()

	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// Encoder returns the command encoder of the current frame, nil outside a frame.
	Encoder() *wgpu.CommandEncoder

	// RenderPass returns the open render pass, nil when no target group is bound for drawing.
	RenderPass() *wgpu.RenderPassEncoder

	// Buffer returns the buffer named by key, nil if it was never written.
	Buffer(key gpu.BufferKey) *wgpu.Buffer

	// BoundBuffer returns the buffer bound to slot, nil if the slot is empty.
	BoundBuffer(slot gpu.Slot) *wgpu.Buffer

	// Viewport returns the last bound viewport.
	Viewport() gpu.Viewport

	// InputView returns the HDR image the current pass reads.
	InputView() *wgpu.TextureView

	// OutputView returns the HDR image the current pass writes.
	OutputView() *wgpu.TextureView

	// GBufferViews returns the base color, material and normal GBuffer views.
	GBufferViews() [3]*wgpu.TextureView

	// DepthView returns the depth target view.
	DepthView() *wgpu.TextureView

	// BackBufferView returns the swapchain image of the current frame.
	BackBufferView() *wgpu.TextureView

	// SurfaceFormat returns the swapchain format.
	SurfaceFormat() wgpu.TextureFormat
}

// target is a texture and its default view.
type target struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

func (t *target) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// wgpuBackendImpl is the implementation of the WGPUBackend interface.
type wgpuBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	display       DisplayConfiguration

	buffers  map[gpu.BufferKey]*wgpu.Buffer
	bindings map[gpu.Slot]gpu.BufferKey
	viewport gpu.Viewport

	// hdr holds the ping-pong pair; current indexes the image holding the latest result.
	hdr     [2]target
	current int
	msaa    target
	depth   target
	gbuffer [3]target

	// frame state, valid between the first BindBegin and Present
	frameEncoder *wgpu.CommandEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	pass         *wgpu.RenderPassEncoder
	cleared      bool
}

var _ WGPUBackend = &wgpuBackendImpl{}

// NewWGPUBackend creates the WebGPU instance, adapter, device and surface for the given
// surface descriptor. Call ConfigureSurface before rendering.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, typically from window.Window.SurfaceDescriptor
//   - forceFallbackAdapter: true to request a software adapter
//
// Returns:
//   - WGPUBackend: the backend
//   - error: an error if no adapter or device is available
func NewWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (WGPUBackend, error) {
	if surfaceDescriptor == nil {
		panic("renderer: NewWGPUBackend requires a non-nil surface descriptor")
	}
	runtime.LockOSThread()

	b := &wgpuBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		buffers:     make(map[gpu.BufferKey]*wgpu.Buffer),
		bindings:    make(map[gpu.Slot]gpu.BufferKey),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, errors.Wrap(err, "renderer: request adapter")
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, errors.Wrap(err, "renderer: request device")
	}
	b.device = d
	b.queue = d.GetQueue()

	common.Logger().Info("renderer: webgpu device ready", "fallback", forceFallbackAdapter)
	return b, nil
}

func (b *wgpuBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuBackendImpl) ConfigureSurface(display DisplayConfiguration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if display.Width == 0 || display.Height == 0 {
		return errors.Errorf("renderer: cannot configure a %dx%d surface", display.Width, display.Height)
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       display.Width,
		Height:      display.Height,
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()
	b.display = display

	// Every intermediate target lives at the super-sampled resolution; the back buffer pass
	// downsamples into the swapchain.
	width, height := display.SSWidth(), display.SSHeight()
	samples := display.AA.SampleCount()

	var err error
	for i := range b.hdr {
		b.hdr[i], err = b.createTarget("HDR Texture", width, height, 1, hdrFormat,
			wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding)
		if err != nil {
			return err
		}
	}
	if samples > 1 {
		b.msaa, err = b.createTarget("MSAA Texture", width, height, samples, hdrFormat,
			wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
		if err != nil {
			return err
		}
	}
	b.depth, err = b.createTarget("Depth Texture", width, height, samples, depthFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
	if err != nil {
		return err
	}

	gbufferFormats := [3]wgpu.TextureFormat{
		wgpu.TextureFormatRGBA8Unorm, // base color
		wgpu.TextureFormatRGBA8Unorm, // roughness, metalness
		hdrFormat,                    // normal
	}
	for i, format := range gbufferFormats {
		b.gbuffer[i], err = b.createTarget("GBuffer Texture", width, height, samples, format,
			wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding)
		if err != nil {
			return err
		}
	}

	common.Logger().Info("renderer: surface configured",
		"width", display.Width, "height", display.Height, "aa", display.AA.String(), "samples", samples)
	return nil
}

func (b *wgpuBackendImpl) createTarget(label string, width, height, samples uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (target, error) {
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return target{}, errors.Wrapf(err, "renderer: create %s", label)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return target{}, errors.Wrapf(err, "renderer: create %s view", label)
	}
	return target{texture: texture, view: view}, nil
}

func (b *wgpuBackendImpl) releaseTargets() {
	for i := range b.hdr {
		b.hdr[i].release()
	}
	b.msaa.release()
	b.depth.release()
	for i := range b.gbuffer {
		b.gbuffer[i].release()
	}
	b.current = 0
}

func (b *wgpuBackendImpl) WriteBuffer(key gpu.BufferKey, offset uint64, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(data) == 0 {
		return nil
	}
	required := offset + uint64(len(data))
	buf := b.buffers[key]
	if buf == nil || buf.GetSize() < required {
		size := (required + bufferAlignment - 1) / bufferAlignment * bufferAlignment
		created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: string(key) + " Buffer",
			Size:  size,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return errors.Wrapf(err, "renderer: create buffer %s", key)
		}
		if buf != nil {
			buf.Release()
		}
		b.buffers[key] = created
		buf = created
	}
	// The queue copies data before returning.
	b.queue.WriteBuffer(buf, offset, data)
	return nil
}

func (b *wgpuBackendImpl) BindBuffer(slot gpu.Slot, key gpu.BufferKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.buffers[key]; !ok {
		return errors.Errorf("renderer: bind unknown buffer %s to slot %d", key, slot)
	}
	b.bindings[slot] = key
	return nil
}

func (b *wgpuBackendImpl) BindViewport(viewport gpu.Viewport) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if viewport.Empty() {
		return errors.Errorf("renderer: empty viewport %+v", viewport)
	}
	b.viewport = viewport
	if b.pass != nil {
		b.pass.SetViewport(viewport.X, viewport.Y, viewport.Width, viewport.Height, viewport.MinDepth, viewport.MaxDepth)
	}
	return nil
}

func (b *wgpuBackendImpl) Buffer(key gpu.BufferKey) *wgpu.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffers[key]
}

func (b *wgpuBackendImpl) BoundBuffer(slot gpu.Slot) *wgpu.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	key, ok := b.bindings[slot]
	if !ok {
		return nil
	}
	return b.buffers[key]
}

func (b *wgpuBackendImpl) Viewport() gpu.Viewport {
	return b.viewport
}

func (b *wgpuBackendImpl) Encoder() *wgpu.CommandEncoder {
	return b.frameEncoder
}

func (b *wgpuBackendImpl) RenderPass() *wgpu.RenderPassEncoder {
	return b.pass
}

func (b *wgpuBackendImpl) InputView() *wgpu.TextureView {
	return b.hdr[b.current].view
}

func (b *wgpuBackendImpl) OutputView() *wgpu.TextureView {
	return b.hdr[1-b.current].view
}

func (b *wgpuBackendImpl) GBufferViews() [3]*wgpu.TextureView {
	return [3]*wgpu.TextureView{b.gbuffer[0].view, b.gbuffer[1].view, b.gbuffer[2].view}
}

func (b *wgpuBackendImpl) DepthView() *wgpu.TextureView {
	return b.depth.view
}

func (b *wgpuBackendImpl) BackBufferView() *wgpu.TextureView {
	return b.frameView
}

func (b *wgpuBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	return b.surfaceFormat
}

// BindBegin acquires the swapchain image and the frame encoder on the first camera of a
// frame. Later cameras of the same frame reuse them.
func (b *wgpuBackendImpl) BindBegin() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.hdr[0].view == nil {
		return errors.New("renderer: surface not configured")
	}
	b.cleared = false
	b.current = 0
	if b.frameEncoder != nil {
		return nil
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return errors.Wrap(err, "renderer: acquire swapchain image")
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return errors.Wrap(err, "renderer: create swapchain view")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return errors.Wrap(err, "renderer: create command encoder")
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

// loadOp clears the targets of the first pass of a camera and keeps them afterwards.
func (b *wgpuBackendImpl) loadOp() wgpu.LoadOp {
	if b.cleared {
		return wgpu.LoadOpLoad
	}
	b.cleared = true
	return wgpu.LoadOpClear
}

func (b *wgpuBackendImpl) beginPass(label string, colors []wgpu.RenderPassColorAttachment, depthLoad wgpu.LoadOp) error {
	if b.frameEncoder == nil {
		return errors.Errorf("renderer: %s outside a frame", label)
	}
	if b.pass != nil {
		return errors.Errorf("renderer: %s while another pass is open", label)
	}
	b.pass = b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            label,
		ColorAttachments: colors,
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depth.view,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	if !b.viewport.Empty() {
		v := b.viewport
		b.pass.SetViewport(v.X, v.Y, v.Width, v.Height, v.MinDepth, v.MaxDepth)
	}
	return nil
}

func (b *wgpuBackendImpl) endPass() {
	if b.pass == nil {
		return
	}
	b.pass.End()
	b.pass.Release()
	b.pass = nil
}

func (b *wgpuBackendImpl) BindBeginForward() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	load := b.loadOp()
	color := wgpu.RenderPassColorAttachment{
		View:    b.hdr[b.current].view,
		LoadOp:  load,
		StoreOp: wgpu.StoreOpStore,
	}
	if b.msaa.view != nil {
		color.View = b.msaa.view
	}
	return b.beginPass("Forward Pass", []wgpu.RenderPassColorAttachment{color}, load)
}

func (b *wgpuBackendImpl) BindEndForward() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endPass()
	return nil
}

func (b *wgpuBackendImpl) BindBeginGBuffer() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	load := b.loadOp()
	colors := make([]wgpu.RenderPassColorAttachment, len(b.gbuffer))
	for i := range b.gbuffer {
		colors[i] = wgpu.RenderPassColorAttachment{
			View:    b.gbuffer[i].view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
		}
	}
	return b.beginPass("GBuffer Pass", colors, load)
}

func (b *wgpuBackendImpl) BindEndGBuffer() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endPass()
	return nil
}

// BindBeginDeferred leaves no pass open: the deferred pass reads GBufferViews and writes
// OutputView, either from a compute pass or its own full-screen render pass.
func (b *wgpuBackendImpl) BindBeginDeferred() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pass != nil {
		return errors.New("renderer: begin deferred while a pass is open")
	}
	return nil
}

// BindEndDeferred publishes the shaded image as the current HDR image.
func (b *wgpuBackendImpl) BindEndDeferred() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = 1 - b.current
	return nil
}

func (b *wgpuBackendImpl) BindBeginResolve() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pass != nil {
		return errors.New("renderer: begin resolve while a pass is open")
	}
	return nil
}

func (b *wgpuBackendImpl) BindEndResolve() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = 1 - b.current
	return nil
}

func (b *wgpuBackendImpl) BindPingPong() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = 1 - b.current
	return nil
}

func (b *wgpuBackendImpl) BindBeginPostProcessing() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pass != nil {
		return errors.New("renderer: begin post-processing while a pass is open")
	}
	return nil
}

func (b *wgpuBackendImpl) BindEnd() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endPass()
	return nil
}

func (b *wgpuBackendImpl) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return nil
	}
	b.endPass()

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrame()
		return errors.Wrap(err, "renderer: finish frame")
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	b.surface.Present()
	b.releaseFrame()
	return nil
}

func (b *wgpuBackendImpl) releaseFrame() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.endPass()
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	b.releaseFrame()
	b.releaseTargets()
	for key, buf := range b.buffers {
		buf.Release()
		delete(b.buffers, key)
	}
	clear(b.bindings)
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}
