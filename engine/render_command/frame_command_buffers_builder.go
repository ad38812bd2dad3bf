package render_command

// FrameCommandBuffersBuilderOption is a functional option for configuring FrameCommandBuffers.
type FrameCommandBuffersBuilderOption func(*frameCommandBuffers)

// WithSynchronizedBuffers makes both buffers of the pair synchronized, allowing several
// goroutines to record into Back concurrently.
//
// Parameters:
//   - enabled: true to use SynchronizedRenderCommandBuffer for both halves
//
// Returns:
//   - FrameCommandBuffersBuilderOption: option function to apply
func WithSynchronizedBuffers(enabled bool) FrameCommandBuffersBuilderOption {
	return func(f *frameCommandBuffers) {
		f.synchronized = enabled
	}
}

// WithBufferOptions forwards options to both buffers of the pair.
//
// Parameters:
//   - options: the buffer options to apply
//
// Returns:
//   - FrameCommandBuffersBuilderOption: option function to apply
func WithBufferOptions(options ...RenderCommandBufferBuilderOption) FrameCommandBuffersBuilderOption {
	return func(f *frameCommandBuffers) {
		f.bufferOptions = append(f.bufferOptions, options...)
	}
}
