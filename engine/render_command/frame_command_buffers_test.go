package render_command

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingCommand parks its replay until unblock is closed.
type blockingCommand struct {
	started  chan struct{}
	unblock  chan struct{}
	once     sync.Once
	released atomic.Int32
}

func newBlockingCommand() *blockingCommand {
	return &blockingCommand{started: make(chan struct{}), unblock: make(chan struct{})}
}

func (c *blockingCommand) Execute() error {
	close(c.started)
	<-c.unblock
	return nil
}

func (c *blockingCommand) OnExecuted() {}

func (c *blockingCommand) Release() {
	c.released.Add(1)
}

func (c *blockingCommand) finish() {
	c.once.Do(func() { close(c.unblock) })
}

func TestSwapPublishesBackBuffer(t *testing.T) {
	var log []string
	f := NewFrameCommandBuffers()
	cmds := newRecording(&log, "frame1")

	f.Back().Append(cmds[0])
	f.ExecuteFront()
	assert.Empty(t, log, "nothing published before the first swap")

	assert.Equal(t, uint64(1), f.Swap())
	assert.Equal(t, 1, f.FrontLen())
	assert.True(t, f.Back().IsEmpty())

	f.ExecuteFront()
	f.ExecuteFront()
	assert.Equal(t, []string{"frame1", "frame1:done", "frame1", "frame1:done"}, log)
}

func TestSwapReleasesRetiredFrame(t *testing.T) {
	var log []string
	f := NewFrameCommandBuffers()
	first := newRecording(&log, "first")[0]
	second := newRecording(&log, "second")[0]

	f.Back().Append(first)
	f.Swap()
	assert.Zero(t, first.released)

	f.Back().Append(second)
	f.Swap()
	assert.Equal(t, 1, first.released, "retired front buffer is released on swap")
	assert.Zero(t, second.released)
	assert.Equal(t, uint64(2), f.Frame())
}

func TestSynchronizedFrameBuffersConcurrentRecord(t *testing.T) {
	f := NewFrameCommandBuffers(WithSynchronizedBuffers(true), WithBufferOptions(WithCapacity(8)))
	back := f.Back()

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				back.Append(CommandFunc(func() error { return nil }))
			}
		}()
	}
	wg.Wait()

	f.Swap()
	assert.Equal(t, 400, f.FrontLen())
}

func TestExecuteFrontConcurrentWithSwap(t *testing.T) {
	f := NewFrameCommandBuffers()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				f.ExecuteFront()
			}
		}
	}()

	for range 200 {
		f.Back().Append(CommandFunc(func() error { return nil }))
		f.Swap()
	}
	close(done)
	wg.Wait()
	assert.Equal(t, uint64(200), f.Frame())
}

func TestSwapDoesNotWaitForReplay(t *testing.T) {
	f := NewFrameCommandBuffers()
	slow := newBlockingCommand()
	t.Cleanup(slow.finish)

	f.Back().Append(slow)
	f.Swap()

	replayed := make(chan struct{})
	go func() {
		defer close(replayed)
		f.ExecuteFront()
	}()
	<-slow.started

	var log []string
	next := newRecording(&log, "next")[0]
	produced := make(chan struct{})
	go func() {
		defer close(produced)
		f.Back().Append(next)
		f.Swap()
		f.Back().Append(CommandFunc(nil))
		f.Swap()
	}()

	select {
	case <-produced:
	case <-time.After(time.Second):
		require.FailNow(t, "Back and Swap waited for the running replay")
	}
	assert.Zero(t, slow.released.Load(), "a frame being replayed keeps its commands")
	assert.Equal(t, 1, next.released, "frames nobody replays are released at swap")

	slow.finish()
	<-replayed
	assert.Equal(t, int32(1), slow.released.Load(), "the last replay releases the retired frame")
	assert.Equal(t, uint64(3), f.Frame())
	assert.Equal(t, 1, f.FrontLen())
}

func TestRetiredFrameIsNotRecordedDuringReplay(t *testing.T) {
	f := NewFrameCommandBuffers()
	slow := newBlockingCommand()
	t.Cleanup(slow.finish)

	f.Back().Append(slow)
	f.Swap()
	replaying := f.(*frameCommandBuffers).front.buf

	go f.ExecuteFront()
	<-slow.started

	for range 4 {
		assert.NotSame(t, replaying, f.Back(), "the producer never records into a buffer being replayed")
		f.Swap()
	}
	assert.Equal(t, 1, replaying.Len(), "the replayed frame is untouched until its replay ends")
}
