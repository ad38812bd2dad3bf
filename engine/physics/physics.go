// Package physics provides a minimal rigid-body world: point masses under gravity
// resting on an infinite ground plane.
package physics

import (
	"github.com/chewxy/math32"
)

// restEpsilon is the speed below which a body touching the ground is put to rest.
const restEpsilon = 1e-3

// Body is a simulated point mass with a collision radius.
type Body interface {
	// Position returns the body position.
	Position() [3]float32

	// SetPosition teleports the body.
	SetPosition(p [3]float32)

	// Velocity returns the body velocity.
	Velocity() [3]float32

	// SetVelocity replaces the body velocity.
	SetVelocity(v [3]float32)

	// ApplyImpulse adds impulse/mass to the velocity. Bodies with zero mass ignore impulses.
	//
	// Parameters:
	//   - impulse: the impulse vector
	ApplyImpulse(impulse [3]float32)

	// Mass returns the body mass.
	Mass() float32

	// Radius returns the collision radius used against the ground plane.
	Radius() float32

	// Moved reports whether the last World.Step changed the position.
	Moved() bool

	// Resting reports whether the body sits on the ground with no velocity.
	Resting() bool
}

type body struct {
	position    [3]float32
	velocity    [3]float32
	mass        float32
	radius      float32
	restitution float32
	moved       bool
	resting     bool
}

var _ Body = &body{}

func (b *body) Position() [3]float32 {
	return b.position
}

func (b *body) SetPosition(p [3]float32) {
	b.position = p
	b.resting = false
}

func (b *body) Velocity() [3]float32 {
	return b.velocity
}

func (b *body) SetVelocity(v [3]float32) {
	b.velocity = v
	b.resting = false
}

func (b *body) ApplyImpulse(impulse [3]float32) {
	if b.mass <= 0 {
		return
	}
	inv := 1 / b.mass
	for i := range 3 {
		b.velocity[i] += impulse[i] * inv
	}
	b.resting = false
}

func (b *body) Mass() float32 {
	return b.mass
}

func (b *body) Radius() float32 {
	return b.radius
}

func (b *body) Moved() bool {
	return b.moved
}

func (b *body) Resting() bool {
	return b.resting
}

// integrate advances b by dt with semi-implicit Euler and resolves ground contact.
func (b *body) integrate(gravity [3]float32, groundY, dt float32) {
	b.moved = false
	if b.resting || b.mass <= 0 {
		return
	}
	before := b.position
	for i := range 3 {
		b.velocity[i] += gravity[i] * dt
		b.position[i] += b.velocity[i] * dt
	}

	floor := groundY + b.radius
	if b.position[1] <= floor {
		b.position[1] = floor
		if b.velocity[1] < 0 {
			b.velocity[1] = -b.velocity[1] * b.restitution
		}
		if math32.Abs(b.velocity[1]) < restEpsilon &&
			math32.Abs(b.velocity[0]) < restEpsilon &&
			math32.Abs(b.velocity[2]) < restEpsilon {
			b.velocity = [3]float32{}
			b.resting = true
		}
	}
	b.moved = b.position != before
}
