package render_command

import (
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
)

// RenderCommandBuffer is an ordered, appendable list of RenderCommand references.
// The buffer never owns or frees its commands; Clear only drops the references.
type RenderCommandBuffer interface {
	// Append adds a command to the end of the buffer. Nil commands are ignored.
	//
	// Parameters:
	//   - cmd: the command to append
	Append(cmd RenderCommand)

	// AppendBuffer appends every command of other, in order, with a single bulk copy.
	// This is cheaper than calling Append for each command. other is not modified.
	//
	// Parameters:
	//   - other: the buffer whose commands are appended
	AppendBuffer(other RenderCommandBuffer)

	// Execute runs Execute then OnExecuted on every command in append order.
	// The buffer is not cleared, so calling Execute again replays the same commands.
	Execute()

	// Clear removes every command reference from the buffer.
	Clear()

	// IsEmpty reports whether the buffer holds no commands.
	//
	// Returns:
	//   - bool: true if the buffer is empty
	IsEmpty() bool

	// Len returns the number of commands in the buffer.
	//
	// Returns:
	//   - int: the command count
	Len() int

	// Commands returns a copy of the buffer's command references in append order.
	//
	// Returns:
	//   - []RenderCommand: the snapshot of commands
	Commands() []RenderCommand
}

// commandSource is implemented by the buffers of this package so AppendBuffer can copy
// straight into the destination slice.
type commandSource interface {
	appendTo(dst []RenderCommand) []RenderCommand
}

// ErrorHandler receives a command that failed during Execute together with its error.
type ErrorHandler func(cmd RenderCommand, err error)

// renderCommandBuffer is the implementation of the RenderCommandBuffer interface.
// It is not safe for concurrent use.
type renderCommandBuffer struct {
	commands     []RenderCommand
	errorHandler ErrorHandler
	logger       *slog.Logger
}

var _ RenderCommandBuffer = &renderCommandBuffer{}

// NewRenderCommandBuffer creates an empty, unsynchronized RenderCommandBuffer.
//
// Parameters:
//   - options: functional options for the buffer (capacity, error handler, logger)
//
// Returns:
//   - RenderCommandBuffer: the new buffer
func NewRenderCommandBuffer(options ...RenderCommandBufferBuilderOption) RenderCommandBuffer {
	cfg := newBufferConfig(options)
	return &renderCommandBuffer{
		commands:     make([]RenderCommand, 0, cfg.capacity),
		errorHandler: cfg.errorHandler,
		logger:       cfg.logger,
	}
}

func (b *renderCommandBuffer) Append(cmd RenderCommand) {
	if cmd == nil {
		return
	}
	b.commands = append(b.commands, cmd)
}

func (b *renderCommandBuffer) AppendBuffer(other RenderCommandBuffer) {
	if other == nil {
		return
	}
	if src, ok := other.(commandSource); ok {
		b.commands = src.appendTo(b.commands)
		return
	}
	b.commands = append(b.commands, other.Commands()...)
}

func (b *renderCommandBuffer) Execute() {
	executeCommands(b.commands, b.errorHandler, b.logger)
}

func (b *renderCommandBuffer) Clear() {
	clear(b.commands)
	b.commands = b.commands[:0]
}

func (b *renderCommandBuffer) IsEmpty() bool {
	return len(b.commands) == 0
}

func (b *renderCommandBuffer) Len() int {
	return len(b.commands)
}

func (b *renderCommandBuffer) Commands() []RenderCommand {
	return slices.Clone(b.commands)
}

func (b *renderCommandBuffer) appendTo(dst []RenderCommand) []RenderCommand {
	dst = slices.Grow(dst, len(b.commands))
	return append(dst, b.commands...)
}

// executeCommands runs each command in order, reporting failures without stopping.
// A configured error handler takes over reporting; otherwise failures are logged at Warn.
func executeCommands(commands []RenderCommand, onError ErrorHandler, logger *slog.Logger) {
	for _, cmd := range commands {
		if err := cmd.Execute(); err != nil {
			if onError != nil {
				onError(cmd, err)
			} else {
				logging.Or(logger).Warn("render command failed", "error", err)
			}
		}
		cmd.OnExecuted()
	}
}
