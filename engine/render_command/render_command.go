// Package render_command provides deferred GPU work: commands are recorded on the
// simulation goroutine into a RenderCommandBuffer and replayed later on the render goroutine.
package render_command

// RenderCommand is a single unit of deferred rendering work.
// Commands are referenced, not owned, by the buffers they are appended to.
type RenderCommand interface {
	// Execute performs the command's rendering work.
	// A returned error is reported by the executing buffer and does not stop its sibling commands.
	//
	// Returns:
	//   - error: the command's failure, or nil on success
	Execute() error

	// OnExecuted is invoked by the executing buffer immediately after Execute, once per execution.
	OnExecuted()
}

// Releaser is implemented by commands that belong to a pool.
// Release is only called by the owner of a buffer when it explicitly hands its commands back,
// never by Clear.
type Releaser interface {
	Release()
}

// CommandFunc adapts a plain function into a RenderCommand with a no-op OnExecuted.
type CommandFunc func() error

var _ RenderCommand = CommandFunc(nil)

func (f CommandFunc) Execute() error {
	if f == nil {
		return nil
	}
	return f()
}

func (f CommandFunc) OnExecuted() {}

// ReleaseCommands calls Release on every command in buf that implements Releaser and then clears buf.
//
// Parameters:
//   - buf: the buffer whose commands are returned to their pools
func ReleaseCommands(buf RenderCommandBuffer) {
	for _, cmd := range buf.Commands() {
		if r, ok := cmd.(Releaser); ok {
			r.Release()
		}
	}
	buf.Clear()
}
