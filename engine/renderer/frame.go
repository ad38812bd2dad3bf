package renderer

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoActivePass is returned by a draw command executed outside BeginFrame/EndFrame.
var ErrNoActivePass = errors.New("renderer: no active render pass")

// Frame binds recorded draw commands to the render pass of the frame being replayed.
// The render goroutine sets the pass after BeginFrame and clears it after EndFrame; the
// update goroutine only creates commands through the factory methods.
type Frame struct {
	mu   sync.RWMutex
	pass PassEncoder

	pipelines     *render_command.CommandPool[*setPipelineCommand]
	bindGroups    *render_command.CommandPool[*setBindGroupCommand]
	viewports     *render_command.CommandPool[*setViewportCommand]
	scissors      *render_command.CommandPool[*setScissorCommand]
	vertexBuffers *render_command.CommandPool[*setVertexBufferCommand]
	indexBuffers  *render_command.CommandPool[*setIndexBufferCommand]
	draws         *render_command.CommandPool[*drawCommand]
	drawsIndexed  *render_command.CommandPool[*drawIndexedCommand]
	drawsIndirect *render_command.CommandPool[*drawIndexedIndirectCommand]
}

// NewFrame creates a Frame with no active pass.
//
// Returns:
//   - *Frame: the new frame
func NewFrame() *Frame {
	f := &Frame{}
	f.pipelines = render_command.NewCommandPool(func() *setPipelineCommand { return &setPipelineCommand{frame: f} })
	f.bindGroups = render_command.NewCommandPool(func() *setBindGroupCommand { return &setBindGroupCommand{frame: f} })
	f.viewports = render_command.NewCommandPool(func() *setViewportCommand { return &setViewportCommand{frame: f} })
	f.scissors = render_command.NewCommandPool(func() *setScissorCommand { return &setScissorCommand{frame: f} })
	f.vertexBuffers = render_command.NewCommandPool(func() *setVertexBufferCommand { return &setVertexBufferCommand{frame: f} })
	f.indexBuffers = render_command.NewCommandPool(func() *setIndexBufferCommand { return &setIndexBufferCommand{frame: f} })
	f.draws = render_command.NewCommandPool(func() *drawCommand { return &drawCommand{frame: f} })
	f.drawsIndexed = render_command.NewCommandPool(func() *drawIndexedCommand { return &drawIndexedCommand{frame: f} })
	f.drawsIndirect = render_command.NewCommandPool(func() *drawIndexedIndirectCommand { return &drawIndexedIndirectCommand{frame: f} })
	return f
}

// SetPass makes pass the target of every command executed until Clear.
func (f *Frame) SetPass(pass PassEncoder) {
	f.mu.Lock()
	f.pass = pass
	f.mu.Unlock()
}

// Pass returns the active pass, or nil outside a frame.
func (f *Frame) Pass() PassEncoder {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pass
}

// Clear detaches the active pass.
func (f *Frame) Clear() {
	f.SetPass(nil)
}

func (f *Frame) activePass() (PassEncoder, error) {
	pass := f.Pass()
	if pass == nil {
		return nil, ErrNoActivePass
	}
	return pass, nil
}

// SetPipelineCommand records a pipeline bind.
func (f *Frame) SetPipelineCommand(pipeline *wgpu.RenderPipeline) render_command.RenderCommand {
	c := f.pipelines.Get()
	c.pipeline = pipeline
	return c
}

// SetBindGroupCommand records a bind group bind at index.
func (f *Frame) SetBindGroupCommand(index uint32, group *wgpu.BindGroup, dynamicOffsets []uint32) render_command.RenderCommand {
	c := f.bindGroups.Get()
	c.index = index
	c.group = group
	c.offsets = append(c.offsets[:0], dynamicOffsets...)
	return c
}

// SetViewportCommand records a viewport change.
func (f *Frame) SetViewportCommand(x, y, width, height, minDepth, maxDepth float32) render_command.RenderCommand {
	c := f.viewports.Get()
	c.rect = [6]float32{x, y, width, height, minDepth, maxDepth}
	return c
}

// SetScissorCommand records a scissor rectangle change.
func (f *Frame) SetScissorCommand(x, y, width, height uint32) render_command.RenderCommand {
	c := f.scissors.Get()
	c.rect = [4]uint32{x, y, width, height}
	return c
}

// SetVertexBufferCommand records a vertex buffer bind at slot.
func (f *Frame) SetVertexBufferCommand(slot uint32, buffer *wgpu.Buffer, offset, size uint64) render_command.RenderCommand {
	c := f.vertexBuffers.Get()
	c.slot = slot
	c.buffer = buffer
	c.offset = offset
	c.size = size
	return c
}

// SetIndexBufferCommand records an index buffer bind.
func (f *Frame) SetIndexBufferCommand(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset, size uint64) render_command.RenderCommand {
	c := f.indexBuffers.Get()
	c.buffer = buffer
	c.format = format
	c.offset = offset
	c.size = size
	return c
}

// DrawCommand records a non-indexed draw.
func (f *Frame) DrawCommand(vertexCount, instanceCount, firstVertex, firstInstance uint32) render_command.RenderCommand {
	c := f.draws.Get()
	c.args = [4]uint32{vertexCount, instanceCount, firstVertex, firstInstance}
	return c
}

// DrawIndexedCommand records an indexed draw.
func (f *Frame) DrawIndexedCommand(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) render_command.RenderCommand {
	c := f.drawsIndexed.Get()
	c.indexCount = indexCount
	c.instanceCount = instanceCount
	c.firstIndex = firstIndex
	c.baseVertex = baseVertex
	c.firstInstance = firstInstance
	return c
}

// DrawIndexedIndirectCommand records an indexed draw whose arguments live in a GPU buffer.
func (f *Frame) DrawIndexedIndirectCommand(buffer *wgpu.Buffer, offset uint64) render_command.RenderCommand {
	c := f.drawsIndirect.Get()
	c.buffer = buffer
	c.offset = offset
	return c
}
