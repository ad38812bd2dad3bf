package culling

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/particle"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cameraAt(z float32) []float32 {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	common.LookAt(view, [3]float32{0, 0, z}, [3]float32{0, 0, 0}, [3]float32{0, 1, 0})
	common.Perspective(proj, math32.Pi/2, 1, 0.1, 100)
	common.Mul4(vp, proj, view)
	return vp
}

func cube() model.Model {
	return model.NewModel(model.WithName("cube"), model.WithBounds([3]float32{-1, -1, -1}, [3]float32{1, 1, 1}))
}

func TestWorldSphereFromModel(t *testing.T) {
	obj := game_object.NewGameObject(
		game_object.WithPosition(3, 0, 0),
		game_object.WithScale(2, 1, 1),
		game_object.WithModel(model.NewPlayback(cube())),
	)
	s := WorldSphere(obj)
	assert.InDelta(t, 3, s.Center[0], 1e-5)
	assert.InDelta(t, 2*math32.Sqrt(3), s.Radius, 1e-4)
}

func TestWorldSphereFromParticles(t *testing.T) {
	ps := particle.NewSystem(
		particle.WithEmissionRate(2),
		particle.WithLifetime(10),
		particle.WithVelocityRange([3]float32{}, [3]float32{}),
		particle.WithGravity([3]float32{}),
		particle.WithPlaying(true),
	)
	obj := game_object.NewGameObject(game_object.WithPosition(0, 5, 0), game_object.WithParticles(ps))

	assert.Equal(t, Sphere{Center: [3]float32{0, 5, 0}}, WorldSphere(obj))

	ps.Advance(1)
	require.Equal(t, 2, ps.Count())
	assert.Equal(t, Sphere{Center: [3]float32{0, 5, 0}}, WorldSphere(obj))
}

func TestVisibility(t *testing.T) {
	m := NewFrustumCullingManager()
	inside := game_object.NewGameObject(game_object.WithID(1), game_object.WithModel(model.NewPlayback(cube())))
	behind := game_object.NewGameObject(game_object.WithID(2), game_object.WithPosition(0, 0, 30),
		game_object.WithModel(model.NewPlayback(cube())))
	unknown := game_object.NewGameObject(game_object.WithID(3), game_object.WithPosition(0, 0, 30))

	m.UpdateBounds(inside)
	m.UpdateBounds(behind)
	assert.True(t, m.Visible(behind), "no frustum yet")

	m.SetViewProjection(cameraAt(10))
	assert.True(t, m.Visible(inside))
	assert.False(t, m.Visible(behind))
	assert.True(t, m.Visible(unknown), "objects without bounds are never culled")

	behind.SetPosition(0, 0, -5)
	m.UpdateBounds(behind)
	assert.True(t, m.Visible(behind))

	assert.Equal(t, 2, m.Len())
	m.Forget(behind)
	_, ok := m.Bounds(behind)
	assert.False(t, ok)
}
