package render_command

import (
	"sync"
)

// FrameCommandBuffers is the double-buffer pair shared by the update and render goroutines.
// The update side records the next frame into Back while the render side replays Front;
// Swap publishes the recorded frame at the frame boundary.
type FrameCommandBuffers interface {
	// Back returns the buffer currently being recorded by the update side.
	// Only the goroutine that calls Swap may record into it, unless the pair was built
	// with synchronized buffers.
	//
	// Returns:
	//   - RenderCommandBuffer: the recording buffer
	Back() RenderCommandBuffer

	// ExecuteFront replays the most recently published frame.
	// The swap lock is only held to pin the front buffer, so Back and Swap never wait on a replay.
	ExecuteFront()

	// Swap publishes the back buffer as the new front. The previous front buffer has its
	// pooled commands released and is cleared once no replay is still running it; until then
	// the producer records into a spare buffer.
	//
	// Returns:
	//   - uint64: the sequence number of the frame just published
	Swap() uint64

	// Frame returns the number of frames published so far.
	//
	// Returns:
	//   - uint64: the published frame count
	Frame() uint64

	// FrontLen returns the number of commands in the published frame.
	//
	// Returns:
	//   - int: the front buffer command count
	FrontLen() int
}

// frameSlot is one buffer of the rotation together with its replay state.
type frameSlot struct {
	buf     RenderCommandBuffer
	readers int  // ExecuteFront calls currently replaying buf
	retired bool // swapped out while being replayed; released by the last reader
}

// frameCommandBuffers is the implementation of the FrameCommandBuffers interface.
// Slots rotate back -> front -> spare. A slot is only handed back to the producer after its
// commands were released with no reader left, so recording never overlaps a replay.
type frameCommandBuffers struct {
	mu    sync.Mutex
	front *frameSlot
	back  *frameSlot
	spare []*frameSlot
	frame uint64

	synchronized  bool
	bufferOptions []RenderCommandBufferBuilderOption
}

var _ FrameCommandBuffers = &frameCommandBuffers{}

// NewFrameCommandBuffers creates an empty front/back buffer pair.
//
// Parameters:
//   - options: functional options for the pair
//
// Returns:
//   - FrameCommandBuffers: the new pair, with frame count 0
func NewFrameCommandBuffers(options ...FrameCommandBuffersBuilderOption) FrameCommandBuffers {
	f := &frameCommandBuffers{}
	for _, opt := range options {
		opt(f)
	}
	f.front = f.newSlot()
	f.back = f.newSlot()
	return f
}

func (f *frameCommandBuffers) Back() RenderCommandBuffer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.back.buf
}

func (f *frameCommandBuffers) ExecuteFront() {
	f.mu.Lock()
	slot := f.front
	slot.readers++
	f.mu.Unlock()

	slot.buf.Execute()

	f.mu.Lock()
	defer f.mu.Unlock()
	slot.readers--
	if slot.readers == 0 && slot.retired {
		f.recycle(slot)
	}
}

func (f *frameCommandBuffers) Swap() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	old := f.front
	f.front = f.back
	if old.readers == 0 {
		f.recycle(old)
	} else {
		old.retired = true
	}
	f.back = f.takeSpare()
	f.frame++
	return f.frame
}

func (f *frameCommandBuffers) Frame() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.frame
}

func (f *frameCommandBuffers) FrontLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.front.buf.Len()
}

// recycle releases the slot's commands and makes it available to the producer. Caller holds mu.
func (f *frameCommandBuffers) recycle(slot *frameSlot) {
	ReleaseCommands(slot.buf)
	slot.retired = false
	f.spare = append(f.spare, slot)
}

// takeSpare returns a released slot, allocating one when every other slot is still being replayed.
// Caller holds mu.
func (f *frameCommandBuffers) takeSpare() *frameSlot {
	n := len(f.spare)
	if n == 0 {
		return f.newSlot()
	}
	slot := f.spare[n-1]
	f.spare[n-1] = nil
	f.spare = f.spare[:n-1]
	return slot
}

func (f *frameCommandBuffers) newSlot() *frameSlot {
	if f.synchronized {
		return &frameSlot{buf: NewSynchronizedRenderCommandBuffer(f.bufferOptions...)}
	}
	return &frameSlot{buf: NewRenderCommandBuffer(f.bufferOptions...)}
}
