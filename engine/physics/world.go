package physics

import "sync"

// World owns a set of bodies and advances them together.
type World interface {
	// NewBody creates a body and adds it to the world.
	//
	// Parameters:
	//   - options: functional options for the body
	//
	// Returns:
	//   - Body: the new body
	NewBody(options ...BodyBuilderOption) Body

	// RemoveBody removes b from the world. Removing an unknown body does nothing.
	//
	// Parameters:
	//   - b: the body to remove
	RemoveBody(b Body)

	// Step advances every body by dt.
	//
	// Parameters:
	//   - dt: delta time in seconds
	Step(dt float32)

	// BodyCount returns the number of bodies in the world.
	BodyCount() int

	// Gravity returns the world gravity.
	Gravity() [3]float32

	// SetGravity replaces the world gravity.
	SetGravity(g [3]float32)

	// Steps returns how many times Step has run.
	Steps() uint64
}

type world struct {
	mu      sync.Mutex
	bodies  []*body
	gravity [3]float32
	groundY float32
	steps   uint64
}

var _ World = &world{}

// NewWorld creates an empty world with earth gravity and the ground plane at y=0.
//
// Parameters:
//   - options: functional options for the world
//
// Returns:
//   - World: the new world
func NewWorld(options ...WorldBuilderOption) World {
	w := &world{gravity: [3]float32{0, -9.81, 0}}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *world) NewBody(options ...BodyBuilderOption) Body {
	b := &body{mass: 1, radius: 0.5}
	for _, opt := range options {
		opt(b)
	}
	w.mu.Lock()
	w.bodies = append(w.bodies, b)
	w.mu.Unlock()
	return b
}

func (w *world) RemoveBody(target Body) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, b := range w.bodies {
		if Body(b) == target {
			last := len(w.bodies) - 1
			w.bodies[i] = w.bodies[last]
			w.bodies[last] = nil
			w.bodies = w.bodies[:last]
			return
		}
	}
}

func (w *world) Step(dt float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.steps++
	if dt <= 0 {
		for _, b := range w.bodies {
			b.moved = false
		}
		return
	}
	for _, b := range w.bodies {
		b.integrate(w.gravity, w.groundY, dt)
	}
}

func (w *world) BodyCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

func (w *world) Gravity() [3]float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gravity
}

func (w *world) SetGravity(g [3]float32) {
	w.mu.Lock()
	w.gravity = g
	for _, b := range w.bodies {
		b.resting = false
	}
	w.mu.Unlock()
}

func (w *world) Steps() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps
}
