package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmissionAccumulatesFractions(t *testing.T) {
	s := NewSystem(WithEmissionRate(10), WithLifetime(10), WithSeed(1))
	s.Play()

	s.Advance(0.05)
	assert.Zero(t, s.Count())
	s.Advance(0.05)
	assert.Equal(t, 1, s.Count())
	s.Advance(1)
	assert.Equal(t, 11, s.Count())
}

func TestParticlesExpire(t *testing.T) {
	s := NewSystem(WithEmissionRate(100), WithLifetime(0.5), WithSeed(2), WithPlaying(true))
	s.Advance(0.1)
	require.Equal(t, 10, s.Count())

	s.Stop()
	assert.True(t, s.Playing(), "live particles keep the system playing")
	s.Advance(0.6)
	assert.Zero(t, s.Count())
	assert.False(t, s.Playing())
}

func TestMaxParticles(t *testing.T) {
	s := NewSystem(WithEmissionRate(1000), WithLifetime(5), WithMaxParticles(16), WithPlaying(true))
	s.Advance(1)
	assert.Equal(t, 16, s.Count())
}

func TestGravityAndBounds(t *testing.T) {
	s := NewSystem(
		WithEmissionRate(1),
		WithLifetime(10),
		WithVelocityRange([3]float32{0, 0, 0}, [3]float32{0, 0, 0}),
		WithGravity([3]float32{0, -10, 0}),
		WithOrigin([3]float32{5, 5, 5}),
		WithPlaying(true),
	)

	center, radius := s.Bounds()
	assert.Equal(t, [3]float32{5, 5, 5}, center)
	assert.Zero(t, radius)

	s.Advance(1)
	require.Equal(t, 1, s.Count())
	assert.Equal(t, [3]float32{5, 5, 5}, s.Particles()[0].Position, "spawned this frame, not yet integrated")

	s.Stop()
	s.Advance(0.5)
	p := s.Particles()[0]
	assert.InDelta(t, -5, p.Velocity[1], 1e-5)
	assert.InDelta(t, 2.5, p.Position[1], 1e-5)
}

func TestDeterministicSeed(t *testing.T) {
	a := NewSystem(WithSeed(42), WithPlaying(true))
	b := NewSystem(WithSeed(42), WithPlaying(true))
	a.Advance(0.2)
	b.Advance(0.2)
	assert.Equal(t, a.Particles(), b.Particles())
}
