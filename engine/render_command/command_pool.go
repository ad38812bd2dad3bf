package render_command

import "sync"

// CommandPool recycles concrete command values between frames.
// Commands taken from a pool are handed back through their Release method once the
// buffer that referenced them has been swapped out.
type CommandPool[T any] struct {
	pool sync.Pool
}

// NewCommandPool creates a pool that builds new values with newFn when empty.
//
// Parameters:
//   - newFn: constructor for a fresh command value
//
// Returns:
//   - *CommandPool[T]: the new pool
func NewCommandPool[T any](newFn func() T) *CommandPool[T] {
	return &CommandPool[T]{
		pool: sync.Pool{New: func() any { return newFn() }},
	}
}

// Get returns a pooled value or a newly constructed one.
func (p *CommandPool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns v to the pool.
func (p *CommandPool[T]) Put(v T) {
	p.pool.Put(v)
}
