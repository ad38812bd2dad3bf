package particle

import "math/rand/v2"

// SystemBuilderOption is a functional option for configuring a particle System.
type SystemBuilderOption func(*system)

// WithEmissionRate sets how many particles are spawned per second.
//
// Parameters:
//   - perSecond: spawn rate (default 50)
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithEmissionRate(perSecond float32) SystemBuilderOption {
	return func(s *system) {
		s.rate = max(perSecond, 0)
	}
}

// WithLifetime sets how long each particle lives.
//
// Parameters:
//   - seconds: particle lifetime (default 1)
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithLifetime(seconds float32) SystemBuilderOption {
	return func(s *system) {
		s.lifetime = seconds
	}
}

// WithVelocityRange sets the per-axis range new particle velocities are drawn from.
//
// Parameters:
//   - min: lower bound per axis
//   - max: upper bound per axis
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithVelocityRange(min, max [3]float32) SystemBuilderOption {
	return func(s *system) {
		s.velocityMin = min
		s.velocityMax = max
	}
}

// WithGravity sets the constant acceleration applied to every particle.
//
// Parameters:
//   - g: acceleration in units per second squared (default {0, -9.81, 0})
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithGravity(g [3]float32) SystemBuilderOption {
	return func(s *system) {
		s.gravity = g
	}
}

// WithMaxParticles caps the number of live particles.
//
// Parameters:
//   - n: the cap (default 1024)
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithMaxParticles(n int) SystemBuilderOption {
	return func(s *system) {
		s.maxParticles = max(n, 0)
	}
}

// WithOrigin sets the emitter position.
//
// Parameters:
//   - origin: the emitter position
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithOrigin(origin [3]float32) SystemBuilderOption {
	return func(s *system) {
		s.origin = origin
	}
}

// WithSeed makes the spawn velocities deterministic.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithSeed(seed uint64) SystemBuilderOption {
	return func(s *system) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithPlaying starts the system emitting on construction.
//
// Parameters:
//   - playing: true to start emitting immediately
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithPlaying(playing bool) SystemBuilderOption {
	return func(s *system) {
		s.emitting = playing
	}
}
