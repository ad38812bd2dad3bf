package render_command

import "log/slog"

// bufferConfig collects the construction settings shared by both buffer implementations.
type bufferConfig struct {
	capacity     int
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// RenderCommandBufferBuilderOption is a functional option for configuring a RenderCommandBuffer.
type RenderCommandBufferBuilderOption func(*bufferConfig)

func newBufferConfig(options []RenderCommandBufferBuilderOption) bufferConfig {
	cfg := bufferConfig{capacity: 64}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// WithCapacity pre-allocates room for the given number of command references.
//
// Parameters:
//   - n: initial capacity (negative values are treated as 0)
//
// Returns:
//   - RenderCommandBufferBuilderOption: option function to apply
func WithCapacity(n int) RenderCommandBufferBuilderOption {
	return func(c *bufferConfig) {
		c.capacity = max(n, 0)
	}
}

// WithErrorHandler sets a function invoked for every command whose Execute returns an error.
// The handler replaces the default Warn log, so it decides how each failure is reported.
//
// Parameters:
//   - h: the error handler
//
// Returns:
//   - RenderCommandBufferBuilderOption: option function to apply
func WithErrorHandler(h ErrorHandler) RenderCommandBufferBuilderOption {
	return func(c *bufferConfig) {
		c.errorHandler = h
	}
}

// WithLogger overrides the engine logger for this buffer.
//
// Parameters:
//   - l: the logger to report failed commands to
//
// Returns:
//   - RenderCommandBufferBuilderOption: option function to apply
func WithLogger(l *slog.Logger) RenderCommandBufferBuilderOption {
	return func(c *bufferConfig) {
		c.logger = l
	}
}
