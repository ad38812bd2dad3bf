package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallingBodyMoves(t *testing.T) {
	w := NewWorld(WithGravity([3]float32{0, -10, 0}))
	b := w.NewBody(WithPosition([3]float32{0, 10, 0}))

	w.Step(0.1)
	assert.True(t, b.Moved())
	assert.InDelta(t, -1, b.Velocity()[1], 1e-5)
	assert.InDelta(t, 9.9, b.Position()[1], 1e-5)
	assert.Equal(t, uint64(1), w.Steps())
}

func TestBodyComesToRestOnGround(t *testing.T) {
	w := NewWorld(WithGravity([3]float32{0, -10, 0}))
	b := w.NewBody(WithPosition([3]float32{0, 0.5, 0}), WithRadius(0.5))

	w.Step(0.1)
	assert.False(t, b.Moved())
	assert.True(t, b.Resting())
	assert.Equal(t, [3]float32{0, 0.5, 0}, b.Position())

	b.ApplyImpulse([3]float32{0, 5, 0})
	assert.False(t, b.Resting())
	w.Step(0.1)
	assert.True(t, b.Moved())
}

func TestBounceWithRestitution(t *testing.T) {
	w := NewWorld(WithGravity([3]float32{0, 0, 0}), WithGroundHeight(1))
	b := w.NewBody(
		WithPosition([3]float32{0, 1.1, 0}),
		WithVelocity([3]float32{0, -2, 0}),
		WithRadius(0),
		WithRestitution(0.5),
	)

	w.Step(0.1)
	assert.Equal(t, float32(1), b.Position()[1])
	assert.InDelta(t, 1, b.Velocity()[1], 1e-5)
}

func TestZeroMassIsImmovable(t *testing.T) {
	w := NewWorld()
	b := w.NewBody(WithMass(0), WithPosition([3]float32{0, 5, 0}))
	b.ApplyImpulse([3]float32{1, 1, 1})
	w.Step(1)
	assert.False(t, b.Moved())
	assert.Equal(t, [3]float32{0, 5, 0}, b.Position())
}

func TestRemoveBody(t *testing.T) {
	w := NewWorld()
	a := w.NewBody()
	b := w.NewBody()
	require.Equal(t, 2, w.BodyCount())

	w.RemoveBody(a)
	w.RemoveBody(a)
	assert.Equal(t, 1, w.BodyCount())

	w.RemoveBody(b)
	assert.Zero(t, w.BodyCount())
}

func TestZeroDeltaClearsMoved(t *testing.T) {
	w := NewWorld()
	b := w.NewBody(WithPosition([3]float32{0, 10, 0}))
	w.Step(0.1)
	require.True(t, b.Moved())
	w.Step(0)
	assert.False(t, b.Moved())
}
