// Package particle implements a small CPU particle emitter used as a scene node component.
package particle

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// Particle is a single simulated point.
type Particle struct {
	Position [3]float32
	Velocity [3]float32
	Age      float32
	Lifetime float32
}

// System emits and integrates particles around an origin.
type System interface {
	// Play starts emitting.
	Play()

	// Stop stops emitting. Live particles keep simulating until they expire.
	Stop()

	// Emitting reports whether new particles are being spawned.
	Emitting() bool

	// Playing reports whether the system needs advancing: it is emitting or has live particles.
	Playing() bool

	// Advance spawns, ages, integrates and expires particles.
	//
	// Parameters:
	//   - dt: delta time in seconds
	Advance(dt float32)

	// Count returns the number of live particles.
	Count() int

	// Particles returns the live particles. The slice is reused by the next Advance.
	Particles() []Particle

	// SetOrigin moves the emitter.
	SetOrigin(origin [3]float32)

	// Bounds returns the sphere enclosing every live particle.
	// With no live particles the sphere is centred on the origin with radius 0.
	//
	// Returns:
	//   - center: the sphere center
	//   - radius: the sphere radius
	Bounds() (center [3]float32, radius float32)
}

type system struct {
	origin       [3]float32
	rate         float32 // particles per second
	lifetime     float32
	velocityMin  [3]float32
	velocityMax  [3]float32
	gravity      [3]float32
	maxParticles int
	rng          *rand.Rand

	emitting  bool
	pending   float32 // fractional particles carried between frames
	particles []Particle
}

var _ System = &system{}

// NewSystem creates a stopped particle system.
//
// Parameters:
//   - options: functional options for the system
//
// Returns:
//   - System: the new system
func NewSystem(options ...SystemBuilderOption) System {
	s := &system{
		rate:         50,
		lifetime:     1,
		velocityMin:  [3]float32{-1, 1, -1},
		velocityMax:  [3]float32{1, 3, 1},
		gravity:      [3]float32{0, -9.81, 0},
		maxParticles: 1024,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

func (s *system) Play() {
	s.emitting = true
}

func (s *system) Stop() {
	s.emitting = false
	s.pending = 0
}

func (s *system) Emitting() bool {
	return s.emitting
}

func (s *system) Playing() bool {
	return s.emitting || len(s.particles) > 0
}

func (s *system) Advance(dt float32) {
	if dt <= 0 {
		return
	}

	// Age and integrate, compacting out expired particles in place.
	live := s.particles[:0]
	for _, p := range s.particles {
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		for i := range 3 {
			p.Velocity[i] += s.gravity[i] * dt
			p.Position[i] += p.Velocity[i] * dt
		}
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live

	if !s.emitting {
		return
	}
	s.pending += s.rate * dt
	spawn := int(math32.Floor(s.pending))
	s.pending -= float32(spawn)
	for range spawn {
		if len(s.particles) >= s.maxParticles {
			break
		}
		s.particles = append(s.particles, s.spawn())
	}
}

func (s *system) Count() int {
	return len(s.particles)
}

func (s *system) Particles() []Particle {
	return s.particles
}

func (s *system) SetOrigin(origin [3]float32) {
	s.origin = origin
}

func (s *system) Bounds() ([3]float32, float32) {
	if len(s.particles) == 0 {
		return s.origin, 0
	}
	lo := s.particles[0].Position
	hi := lo
	for _, p := range s.particles[1:] {
		for i := range 3 {
			lo[i] = math32.Min(lo[i], p.Position[i])
			hi[i] = math32.Max(hi[i], p.Position[i])
		}
	}
	var center [3]float32
	var r2 float32
	for i := range 3 {
		center[i] = (lo[i] + hi[i]) * 0.5
		half := (hi[i] - lo[i]) * 0.5
		r2 += half * half
	}
	return center, math32.Sqrt(r2)
}

func (s *system) spawn() Particle {
	var v [3]float32
	for i := range 3 {
		v[i] = s.velocityMin[i] + s.rng.Float32()*(s.velocityMax[i]-s.velocityMin[i])
	}
	return Particle{Position: s.origin, Velocity: v, Lifetime: s.lifetime}
}
