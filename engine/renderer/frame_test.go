package renderer

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePass struct {
	calls []string
}

var _ PassEncoder = &fakePass{}

func (p *fakePass) SetPipeline(*wgpu.RenderPipeline) { p.calls = append(p.calls, "pipeline") }
func (p *fakePass) SetBindGroup(i uint32, _ *wgpu.BindGroup, offsets []uint32) {
	p.calls = append(p.calls, fmt.Sprintf("bind %d %v", i, offsets))
}
func (p *fakePass) SetViewport(x, y, w, h, _, _ float32) {
	p.calls = append(p.calls, fmt.Sprintf("viewport %v %v %v %v", x, y, w, h))
}
func (p *fakePass) SetScissorRect(x, y, w, h uint32) {
	p.calls = append(p.calls, fmt.Sprintf("scissor %d %d %d %d", x, y, w, h))
}
func (p *fakePass) SetVertexBuffer(slot uint32, _ *wgpu.Buffer, offset, size uint64) {
	p.calls = append(p.calls, fmt.Sprintf("vertex %d %d %d", slot, offset, size))
}
func (p *fakePass) SetIndexBuffer(_ *wgpu.Buffer, _ wgpu.IndexFormat, offset, size uint64) {
	p.calls = append(p.calls, fmt.Sprintf("index %d %d", offset, size))
}
func (p *fakePass) Draw(v, i, fv, fi uint32) {
	p.calls = append(p.calls, fmt.Sprintf("draw %d %d %d %d", v, i, fv, fi))
}
func (p *fakePass) DrawIndexed(ic, inst, first uint32, base int32, fi uint32) {
	p.calls = append(p.calls, fmt.Sprintf("drawIndexed %d %d %d %d %d", ic, inst, first, base, fi))
}
func (p *fakePass) DrawIndexedIndirect(_ *wgpu.Buffer, offset uint64) {
	p.calls = append(p.calls, fmt.Sprintf("indirect %d", offset))
}

func TestFrameCommandsReplayInOrder(t *testing.T) {
	f := NewFrame()
	buf := render_command.NewRenderCommandBuffer()
	buf.Append(f.SetPipelineCommand(nil))
	buf.Append(f.SetBindGroupCommand(1, nil, []uint32{256}))
	buf.Append(f.SetViewportCommand(0, 0, 640, 480, 0, 1))
	buf.Append(f.SetScissorCommand(0, 0, 640, 480))
	buf.Append(f.SetVertexBufferCommand(0, nil, 16, 64))
	buf.Append(f.SetIndexBufferCommand(nil, wgpu.IndexFormatUint16, 0, 12))
	buf.Append(f.DrawCommand(3, 1, 0, 0))
	buf.Append(f.DrawIndexedCommand(6, 2, 0, -1, 0))
	buf.Append(f.DrawIndexedIndirectCommand(nil, 20))

	pass := &fakePass{}
	f.SetPass(pass)
	buf.Execute()
	f.Clear()

	assert.Equal(t, []string{
		"pipeline",
		"bind 1 [256]",
		"viewport 0 0 640 480",
		"scissor 0 0 640 480",
		"vertex 0 16 64",
		"index 0 12",
		"draw 3 1 0 0",
		"drawIndexed 6 2 0 -1 0",
		"indirect 20",
	}, pass.calls)
}

func TestCommandWithoutPass(t *testing.T) {
	f := NewFrame()
	require.Nil(t, f.Pass())

	err := f.DrawCommand(3, 1, 0, 0).Execute()
	assert.ErrorIs(t, err, ErrNoActivePass)

	pass := &fakePass{}
	f.SetPass(pass)
	f.Clear()
	assert.ErrorIs(t, f.SetPipelineCommand(nil).Execute(), ErrNoActivePass)
	assert.Empty(t, pass.calls)
}

func TestReleasedCommandsAreReset(t *testing.T) {
	f := NewFrame()
	buf := render_command.NewRenderCommandBuffer()
	buf.Append(f.SetBindGroupCommand(2, nil, []uint32{1, 2, 3}))
	buf.Append(f.DrawIndexedCommand(9, 1, 3, 4, 0))
	render_command.ReleaseCommands(buf)
	assert.True(t, buf.IsEmpty())

	// Pooled values are recycled with their previous arguments cleared.
	bg := f.SetBindGroupCommand(0, nil, nil).(*setBindGroupCommand)
	assert.Empty(t, bg.offsets)
	di := f.DrawIndexedCommand(1, 1, 0, 0, 0).(*drawIndexedCommand)
	assert.Same(t, f, di.frame)
}

func TestSwapReleasesFrameCommands(t *testing.T) {
	f := NewFrame()
	buffers := render_command.NewFrameCommandBuffers()

	buffers.Back().Append(f.DrawCommand(3, 1, 0, 0))
	buffers.Swap()

	pass := &fakePass{}
	f.SetPass(pass)
	buffers.ExecuteFront()
	f.Clear()
	assert.Equal(t, []string{"draw 3 1 0 0"}, pass.calls)

	buffers.Back().Append(f.DrawCommand(6, 1, 0, 0))
	buffers.Swap()
	f.SetPass(pass)
	buffers.ExecuteFront()
	f.Clear()
	assert.Equal(t, []string{"draw 3 1 0 0", "draw 6 1 0 0"}, pass.calls)
}

func TestParsePresentMode(t *testing.T) {
	tests := map[string]struct {
		in   string
		want PresentMode
		ok   bool
	}{
		"vsync":    {in: "vsync", want: PresentModeVSync, ok: true},
		"uncapped": {in: "uncapped", want: PresentModeUncapped, ok: true},
		"unknown":  {in: "mailbox", ok: false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := ParsePresentMode(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
