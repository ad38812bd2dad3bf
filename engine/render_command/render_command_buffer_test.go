package render_command

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCommand appends its name to a shared log on Execute and OnExecuted.
type recordingCommand struct {
	name     string
	log      *[]string
	err      error
	released int
}

func (c *recordingCommand) Execute() error {
	*c.log = append(*c.log, c.name)
	return c.err
}

func (c *recordingCommand) OnExecuted() {
	*c.log = append(*c.log, c.name+":done")
}

func (c *recordingCommand) Release() {
	c.released++
}

func newRecording(log *[]string, names ...string) []*recordingCommand {
	out := make([]*recordingCommand, len(names))
	for i, n := range names {
		out[i] = &recordingCommand{name: n, log: log}
	}
	return out
}

func constructors() map[string]func(...RenderCommandBufferBuilderOption) RenderCommandBuffer {
	return map[string]func(...RenderCommandBufferBuilderOption) RenderCommandBuffer{
		"plain":        NewRenderCommandBuffer,
		"synchronized": NewSynchronizedRenderCommandBuffer,
	}
}

func TestExecuteRunsInAppendOrder(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			var log []string
			buf := newBuf()
			for _, c := range newRecording(&log, "A", "B", "C") {
				buf.Append(c)
			}

			buf.Execute()
			assert.Equal(t, []string{"A", "A:done", "B", "B:done", "C", "C:done"}, log)
			assert.Equal(t, 3, buf.Len())
		})
	}
}

func TestExecuteTwiceReplays(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			var log []string
			buf := newBuf()
			buf.Append(newRecording(&log, "A")[0])

			buf.Execute()
			buf.Execute()
			assert.Equal(t, []string{"A", "A:done", "A", "A:done"}, log)
		})
	}
}

func TestEmptyBuffer(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			buf := newBuf()
			assert.True(t, buf.IsEmpty())
			assert.NotPanics(t, buf.Execute)

			buf.Append(nil)
			assert.True(t, buf.IsEmpty())
		})
	}
}

func TestClearDropsReferencesOnly(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			var log []string
			cmds := newRecording(&log, "A", "B")
			buf := newBuf()
			buf.Append(cmds[0])
			buf.Append(cmds[1])

			buf.Clear()
			assert.True(t, buf.IsEmpty())
			assert.Zero(t, cmds[0].released)

			buf.Execute()
			assert.Empty(t, log)
		})
	}
}

func TestFailingCommandDoesNotStopSiblings(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			var log []string
			var failed []error
			buf := newBuf(WithErrorHandler(func(_ RenderCommand, err error) {
				failed = append(failed, err)
			}))

			cmds := newRecording(&log, "A", "B", "C")
			boom := errors.New("boom")
			cmds[1].err = boom
			for _, c := range cmds {
				buf.Append(c)
			}

			buf.Execute()
			assert.Equal(t, []string{"A", "A:done", "B", "B:done", "C", "C:done"}, log)
			require.Len(t, failed, 1)
			assert.ErrorIs(t, failed[0], boom)
		})
	}
}

func TestErrorHandlerReplacesDefaultLog(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			fail := CommandFunc(func() error { return errors.New("boom") })

			var logged bytes.Buffer
			plain := newBuf(WithLogger(slog.New(slog.NewTextHandler(&logged, nil))))
			plain.Append(fail)
			plain.Execute()
			assert.Contains(t, logged.String(), "render command failed")

			var handled bytes.Buffer
			calls := 0
			custom := newBuf(
				WithLogger(slog.New(slog.NewTextHandler(&handled, nil))),
				WithErrorHandler(func(RenderCommand, error) { calls++ }),
			)
			custom.Append(fail)
			custom.Execute()
			assert.Equal(t, 1, calls)
			assert.Empty(t, handled.String())
		})
	}
}

func TestAppendBufferPreservesOrderAndSource(t *testing.T) {
	for name, newBuf := range constructors() {
		for otherName, newOther := range constructors() {
			t.Run(name+"<-"+otherName, func(t *testing.T) {
				var log []string
				cmds := newRecording(&log, "A", "B", "C", "D")

				dst := newBuf()
				dst.Append(cmds[0])
				other := newOther()
				other.Append(cmds[1])
				other.Append(cmds[2])
				other.Append(cmds[3])

				dst.AppendBuffer(other)
				assert.Equal(t, 4, dst.Len())
				assert.Equal(t, 3, other.Len())

				dst.Execute()
				assert.Equal(t, []string{"A", "A:done", "B", "B:done", "C", "C:done", "D", "D:done"}, log)
			})
		}
	}
}

func TestAppendBufferIntoItself(t *testing.T) {
	for name, newBuf := range constructors() {
		t.Run(name, func(t *testing.T) {
			var log []string
			buf := newBuf()
			buf.Append(newRecording(&log, "A")[0])

			buf.AppendBuffer(buf)
			assert.Equal(t, 2, buf.Len())
		})
	}
}

func TestAppendBufferMatchesIndividualAppends(t *testing.T) {
	var bulkLog, singleLog []string
	bulkCmds := newRecording(&bulkLog, "x", "y", "z")
	singleCmds := newRecording(&singleLog, "x", "y", "z")

	src := NewRenderCommandBuffer()
	for _, c := range bulkCmds {
		src.Append(c)
	}
	bulk := NewRenderCommandBuffer()
	bulk.AppendBuffer(src)

	single := NewRenderCommandBuffer()
	for _, c := range singleCmds {
		single.Append(c)
	}

	bulk.Execute()
	single.Execute()
	assert.Equal(t, singleLog, bulkLog)
}

func TestCommandsReturnsSnapshot(t *testing.T) {
	buf := NewRenderCommandBuffer()
	buf.Append(CommandFunc(func() error { return nil }))

	snap := buf.Commands()
	buf.Clear()
	assert.Len(t, snap, 1)
	assert.True(t, buf.IsEmpty())
}

func TestSynchronizedConcurrentAppend(t *testing.T) {
	buf := NewSynchronizedRenderCommandBuffer()
	const producers, perProducer = 8, 250

	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perProducer {
				buf.Append(CommandFunc(func() error { return nil }))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
				buf.Execute()
			}
		}
	}()

	wg.Wait()
	close(done)
	assert.Equal(t, producers*perProducer, buf.Len())
}

func TestSynchronizedAppendDuringExecute(t *testing.T) {
	buf := NewSynchronizedRenderCommandBuffer()
	runs := 0
	late := CommandFunc(func() error { runs++; return nil })
	buf.Append(CommandFunc(func() error {
		buf.Append(late)
		return nil
	}))

	buf.Execute()
	assert.Zero(t, runs, "command appended during Execute runs on the next Execute")
	buf.Execute()
	assert.Equal(t, 1, runs)
}

func TestReleaseCommands(t *testing.T) {
	var log []string
	cmds := newRecording(&log, "A", "B")
	buf := NewRenderCommandBuffer()
	buf.Append(cmds[0])
	buf.Append(cmds[1])
	buf.Append(CommandFunc(func() error { return nil }))

	ReleaseCommands(buf)
	assert.True(t, buf.IsEmpty())
	assert.Equal(t, 1, cmds[0].released)
	assert.Equal(t, 1, cmds[1].released)
}

func TestCommandPool(t *testing.T) {
	created := 0
	pool := NewCommandPool(func() *recordingCommand {
		created++
		return &recordingCommand{}
	})

	c := pool.Get()
	require.NotNil(t, c)
	assert.Equal(t, 1, created)
	pool.Put(c)
}
