package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// PassEncoder is the subset of *wgpu.RenderPassEncoder that render commands drive.
type PassEncoder interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	SetViewport(x, y, width, height, minDepth, maxDepth float32)
	SetScissorRect(x, y, width, height uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
	DrawIndexedIndirect(indirectBuffer *wgpu.Buffer, indirectOffset uint64)
}

var _ PassEncoder = (*wgpu.RenderPassEncoder)(nil)

// Surface is the window the renderer presents to.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
	clearColor           wgpu.Color
}

// Renderer owns the GPU device and surface and brackets each presented frame.
//
// A frame is BeginFrame, any number of commands against the returned pass, EndFrame, Present.
// All calls must come from the goroutine that created the Renderer.
type Renderer interface {
	// BeginFrame acquires the next surface texture and opens the main render pass.
	//
	// Returns:
	//   - PassEncoder: the open render pass
	//   - error: an error if the frame could not be started
	BeginFrame() (PassEncoder, error)

	// EndFrame closes the render pass and submits it to the GPU queue.
	//
	// Returns:
	//   - error: an error if submission failed
	EndFrame() error

	// Present shows the frame submitted by EndFrame.
	Present()

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the surface attachments could not be recreated
	Resize(width, height int) error

	// SetPresentMode changes the present mode, taking effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Device returns the logical device for creating pipelines and buffers.
	Device() *wgpu.Device

	// Queue returns the device queue for buffer uploads.
	Queue() *wgpu.Queue

	// SurfaceFormat returns the color target format pipelines must use.
	SurfaceFormat() wgpu.TextureFormat

	// SampleCount returns the MSAA sample count pipelines must use.
	SampleCount() MSAASampleCount

	// Release frees every GPU object owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer presenting to surface.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - surface: the window to present to
//   - options: functional options for the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the adapter, device or surface could not be set up
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		presentMode: PresentModeVSync,
		msaa:        MSAA4x,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(surface.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa, r.clearColor)
	}
	if err != nil {
		return nil, err
	}

	r.backend.SetPresentMode(r.presentMode)
	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, fmt.Errorf("renderer: configure surface: %w", err)
	}
	return r, nil
}

func (r *renderer) BeginFrame() (PassEncoder, error) {
	pass, err := r.backend.BeginFrame()
	if err != nil {
		return nil, err
	}
	return pass, nil
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Resize(width, height int) error {
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SampleCount() MSAASampleCount {
	return r.backend.SampleCount()
}

func (r *renderer) Release() {
	r.backend.Release()
}
