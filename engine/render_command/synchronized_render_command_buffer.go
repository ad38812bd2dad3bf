package render_command

import (
	"log/slog"
	"slices"
	"sync"
)

// synchronizedRenderCommandBuffer is a RenderCommandBuffer whose operations are serialized
// by a single buffer-wide mutex. Execute snapshots the command list under the lock and runs
// the snapshot without holding it, so producers appending concurrently never wait on GPU work.
// Commands appended after the snapshot run on the next Execute.
type synchronizedRenderCommandBuffer struct {
	mu           sync.Mutex
	commands     []RenderCommand
	scratch      []RenderCommand
	execMu       sync.Mutex
	errorHandler ErrorHandler
	logger       *slog.Logger
}

var _ RenderCommandBuffer = &synchronizedRenderCommandBuffer{}

// NewSynchronizedRenderCommandBuffer creates an empty RenderCommandBuffer that is safe for
// concurrent use by multiple goroutines.
//
// Parameters:
//   - options: functional options for the buffer (capacity, error handler, logger)
//
// Returns:
//   - RenderCommandBuffer: the new synchronized buffer
func NewSynchronizedRenderCommandBuffer(options ...RenderCommandBufferBuilderOption) RenderCommandBuffer {
	cfg := newBufferConfig(options)
	return &synchronizedRenderCommandBuffer{
		commands:     make([]RenderCommand, 0, cfg.capacity),
		errorHandler: cfg.errorHandler,
		logger:       cfg.logger,
	}
}

func (b *synchronizedRenderCommandBuffer) Append(cmd RenderCommand) {
	if cmd == nil {
		return
	}
	b.mu.Lock()
	b.commands = append(b.commands, cmd)
	b.mu.Unlock()
}

func (b *synchronizedRenderCommandBuffer) AppendBuffer(other RenderCommandBuffer) {
	if other == nil {
		return
	}
	if other == RenderCommandBuffer(b) {
		b.mu.Lock()
		b.commands = append(b.commands, b.commands...)
		b.mu.Unlock()
		return
	}

	// Never hold both locks: two buffers appending into each other would deadlock.
	var snapshot []RenderCommand
	if src, ok := other.(commandSource); ok {
		snapshot = src.appendTo(nil)
	} else {
		snapshot = other.Commands()
	}

	b.mu.Lock()
	b.commands = append(b.commands, snapshot...)
	b.mu.Unlock()
}

func (b *synchronizedRenderCommandBuffer) Execute() {
	// execMu keeps the scratch snapshot exclusive to one executor at a time.
	b.execMu.Lock()
	defer b.execMu.Unlock()

	b.mu.Lock()
	b.scratch = append(b.scratch[:0], b.commands...)
	b.mu.Unlock()

	executeCommands(b.scratch, b.errorHandler, b.logger)
	clear(b.scratch)
}

func (b *synchronizedRenderCommandBuffer) Clear() {
	b.mu.Lock()
	clear(b.commands)
	b.commands = b.commands[:0]
	b.mu.Unlock()
}

func (b *synchronizedRenderCommandBuffer) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.commands) == 0
}

func (b *synchronizedRenderCommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.commands)
}

func (b *synchronizedRenderCommandBuffer) Commands() []RenderCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.commands)
}

func (b *synchronizedRenderCommandBuffer) appendTo(dst []RenderCommand) []RenderCommand {
	b.mu.Lock()
	defer b.mu.Unlock()
	dst = slices.Grow(dst, len(b.commands))
	return append(dst, b.commands...)
}
