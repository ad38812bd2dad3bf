package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/particle"
	"github.com/Carmen-Shannon/oxy-frame/engine/physics"
	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettersMarkTransformChanged(t *testing.T) {
	obj := NewGameObject(WithID(1), WithName("crate"))
	assert.True(t, obj.Enabled())
	assert.False(t, obj.HasFlag(FlagTransformChanged))

	obj.SetPosition(1, 2, 3)
	assert.True(t, obj.HasFlag(FlagTransformChanged))
	x, y, z := obj.Position()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{x, y, z})

	obj.ClearFlag(FlagTransformChanged)
	obj.SetScale(2, 2, 2)
	assert.True(t, obj.HasFlag(FlagTransformChanged))
}

func TestFlags(t *testing.T) {
	obj := NewGameObject(WithFlags(FlagStatic | FlagNoUpdate))
	assert.True(t, obj.HasFlag(FlagStatic))
	assert.True(t, obj.HasFlag(FlagStatic|FlagNoUpdate))
	assert.False(t, obj.HasFlag(FlagStatic|FlagPostUpdate))

	obj.SetFlag(FlagPostUpdate)
	obj.ClearFlag(FlagNoUpdate)
	assert.Equal(t, FlagStatic|FlagPostUpdate, obj.Flags())
}

func TestUpdateRunsHookAndRotation(t *testing.T) {
	var got float32
	obj := NewGameObject(
		WithRotationSpeed(0, 2, 0),
		WithUpdate(func(o GameObject, dt float32) { got += dt }),
	)
	require.True(t, obj.HasUpdateHook())

	obj.Update(0.5)
	assert.Equal(t, float32(0.5), got)
	_, ry, _ := obj.Rotation()
	assert.Equal(t, float32(1), ry)
	assert.True(t, obj.HasFlag(FlagTransformChanged))

	assert.False(t, NewGameObject().HasUpdateHook())
}

func TestSyncFromBody(t *testing.T) {
	w := physics.NewWorld(physics.WithGravity([3]float32{0, -10, 0}))
	b := w.NewBody(physics.WithPosition([3]float32{0, 10, 0}))
	obj := NewGameObject(WithBody(b))

	_, y, _ := obj.Position()
	assert.Equal(t, float32(10), y)
	assert.False(t, obj.SyncFromBody(), "body has not stepped")

	w.Step(0.1)
	assert.True(t, obj.SyncFromBody())
	_, y, _ = obj.Position()
	assert.InDelta(t, 9.9, y, 1e-5)

	obj.SetPosition(0, 3, 0)
	assert.Equal(t, [3]float32{0, 3, 0}, b.Position(), "setter teleports the body")
}

func TestParticlesFollowPosition(t *testing.T) {
	ps := particle.NewSystem()
	obj := NewGameObject(WithParticles(ps), WithPosition(4, 5, 6))

	center, _ := ps.Bounds()
	assert.Equal(t, [3]float32{4, 5, 6}, center)

	obj.SetPosition(1, 1, 1)
	center, _ = ps.Bounds()
	assert.Equal(t, [3]float32{1, 1, 1}, center)
}

func TestModelMatrixTranslation(t *testing.T) {
	obj := NewGameObject(WithPosition(7, 8, 9))
	m := obj.ModelMatrix()
	assert.Equal(t, []float32{7, 8, 9, 1}, m[12:16])
}

func TestRenderSourceFunc(t *testing.T) {
	buf := render_command.NewRenderCommandBuffer()
	obj := NewGameObject(WithRenderSource(RenderSourceFunc(func(o GameObject, b render_command.RenderCommandBuffer) {
		b.Append(render_command.CommandFunc(func() error { return nil }))
	})))
	obj.RenderSource().AppendRenderCommands(obj, buf)
	assert.Equal(t, 1, buf.Len())
}
