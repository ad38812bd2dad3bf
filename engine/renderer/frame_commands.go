package renderer

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/cogentcore/webgpu/wgpu"
)

type setPipelineCommand struct {
	frame    *Frame
	pipeline *wgpu.RenderPipeline
}

type setBindGroupCommand struct {
	frame   *Frame
	index   uint32
	group   *wgpu.BindGroup
	offsets []uint32
}

type setViewportCommand struct {
	frame *Frame
	rect  [6]float32
}

type setScissorCommand struct {
	frame *Frame
	rect  [4]uint32
}

type setVertexBufferCommand struct {
	frame  *Frame
	slot   uint32
	buffer *wgpu.Buffer
	offset uint64
	size   uint64
}

type setIndexBufferCommand struct {
	frame  *Frame
	buffer *wgpu.Buffer
	format wgpu.IndexFormat
	offset uint64
	size   uint64
}

type drawCommand struct {
	frame *Frame
	args  [4]uint32
}

type drawIndexedCommand struct {
	frame         *Frame
	indexCount    uint32
	instanceCount uint32
	firstIndex    uint32
	baseVertex    int32
	firstInstance uint32
}

type drawIndexedIndirectCommand struct {
	frame  *Frame
	buffer *wgpu.Buffer
	offset uint64
}

var (
	_ render_command.RenderCommand = &setPipelineCommand{}
	_ render_command.RenderCommand = &setBindGroupCommand{}
	_ render_command.RenderCommand = &setViewportCommand{}
	_ render_command.RenderCommand = &setScissorCommand{}
	_ render_command.RenderCommand = &setVertexBufferCommand{}
	_ render_command.RenderCommand = &setIndexBufferCommand{}
	_ render_command.RenderCommand = &drawCommand{}
	_ render_command.RenderCommand = &drawIndexedCommand{}
	_ render_command.RenderCommand = &drawIndexedIndirectCommand{}

	_ render_command.Releaser = &setPipelineCommand{}
	_ render_command.Releaser = &drawIndexedIndirectCommand{}
)

func (c *setPipelineCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.SetPipeline(c.pipeline)
	return nil
}

func (c *setPipelineCommand) OnExecuted() {}

func (c *setPipelineCommand) Release() {
	c.pipeline = nil
	c.frame.pipelines.Put(c)
}

func (c *setBindGroupCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.SetBindGroup(c.index, c.group, c.offsets)
	return nil
}

func (c *setBindGroupCommand) OnExecuted() {}

func (c *setBindGroupCommand) Release() {
	c.group = nil
	c.offsets = c.offsets[:0]
	c.frame.bindGroups.Put(c)
}

func (c *setViewportCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.SetViewport(c.rect[0], c.rect[1], c.rect[2], c.rect[3], c.rect[4], c.rect[5])
	return nil
}

func (c *setViewportCommand) OnExecuted() {}

func (c *setViewportCommand) Release() {
	c.rect = [6]float32{}
	c.frame.viewports.Put(c)
}

func (c *setScissorCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.SetScissorRect(c.rect[0], c.rect[1], c.rect[2], c.rect[3])
	return nil
}

func (c *setScissorCommand) OnExecuted() {}

func (c *setScissorCommand) Release() {
	c.rect = [4]uint32{}
	c.frame.scissors.Put(c)
}

func (c *setVertexBufferCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.SetVertexBuffer(c.slot, c.buffer, c.offset, c.size)
	return nil
}

func (c *setVertexBufferCommand) OnExecuted() {}

func (c *setVertexBufferCommand) Release() {
	c.buffer = nil
	c.slot, c.offset, c.size = 0, 0, 0
	c.frame.vertexBuffers.Put(c)
}

func (c *setIndexBufferCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.SetIndexBuffer(c.buffer, c.format, c.offset, c.size)
	return nil
}

func (c *setIndexBufferCommand) OnExecuted() {}

func (c *setIndexBufferCommand) Release() {
	c.buffer = nil
	c.offset, c.size = 0, 0
	c.frame.indexBuffers.Put(c)
}

func (c *drawCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.Draw(c.args[0], c.args[1], c.args[2], c.args[3])
	return nil
}

func (c *drawCommand) OnExecuted() {}

func (c *drawCommand) Release() {
	c.args = [4]uint32{}
	c.frame.draws.Put(c)
}

func (c *drawIndexedCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.DrawIndexed(c.indexCount, c.instanceCount, c.firstIndex, c.baseVertex, c.firstInstance)
	return nil
}

func (c *drawIndexedCommand) OnExecuted() {}

func (c *drawIndexedCommand) Release() {
	*c = drawIndexedCommand{frame: c.frame}
	c.frame.drawsIndexed.Put(c)
}

func (c *drawIndexedIndirectCommand) Execute() error {
	pass, err := c.frame.activePass()
	if err != nil {
		return err
	}
	pass.DrawIndexedIndirect(c.buffer, c.offset)
	return nil
}

func (c *drawIndexedIndirectCommand) OnExecuted() {}

func (c *drawIndexedIndirectCommand) Release() {
	c.buffer = nil
	c.offset = 0
	c.frame.drawsIndirect.Put(c)
}
