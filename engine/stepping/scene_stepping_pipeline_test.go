package stepping

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traits describe how the recording callback classifies a node.
type traits struct {
	update     bool
	postUpdate bool
	static     bool
	physics    bool
	moves      bool
}

// recordingCallback logs every call it receives, in order.
type recordingCallback struct {
	traits map[string]traits
	calls  []string

	pipeline SceneSteppingPipeline[string]

	onUpdate  func(node string)
	onRemoved func(node string)
	onPhysics func()
}

func newRecordingCallback(t map[string]traits) *recordingCallback {
	return &recordingCallback{traits: t}
}

func (c *recordingCallback) DoesSceneNodeRequireUpdate(n string) bool {
	return c.traits[n].update
}

func (c *recordingCallback) DoesSceneNodeRequirePostUpdate(n string) bool {
	return c.traits[n].postUpdate
}

func (c *recordingCallback) IsSceneNodeStatic(n string) bool {
	return c.traits[n].static
}

func (c *recordingCallback) IsPhysicsObject(n string) bool {
	return c.traits[n].physics
}

func (c *recordingCallback) UpdateSceneNode(n string, _ float32) {
	c.calls = append(c.calls, "update:"+n)
	if c.onUpdate != nil {
		c.onUpdate(n)
	}
}

func (c *recordingCallback) PostUpdateSceneNode(n string, _ float32) {
	c.calls = append(c.calls, "post:"+n)
}

func (c *recordingCallback) StepPhysics(dt float32) {
	c.calls = append(c.calls, fmt.Sprintf("physics:%g", dt))
	if c.onPhysics != nil {
		c.onPhysics()
	}
}

func (c *recordingCallback) UpdateSceneNodePhysicsTransform(n string) bool {
	c.calls = append(c.calls, "sync:"+n)
	return c.traits[n].moves
}

func (c *recordingCallback) OnSceneNodeInserted(n string) {
	c.calls = append(c.calls, "inserted:"+n)
}

func (c *recordingCallback) OnSceneNodeRemoved(n string) {
	c.calls = append(c.calls, "removed:"+n)
	if c.onRemoved != nil {
		c.onRemoved(n)
	}
}

func (c *recordingCallback) OnSceneNodeTransformed(n string) {
	c.calls = append(c.calls, "transformed:"+n)
}

func (c *recordingCallback) reset() {
	c.calls = nil
}

func TestStepPhaseOrder(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"a": {update: true, postUpdate: true},
		"b": {update: true, postUpdate: true, physics: true, moves: true},
	})
	p := NewSceneSteppingPipeline[string](cb, WithNodes("a", "b"))
	cb.reset()

	p.Step(0.5)
	assert.Equal(t, []string{
		"update:a", "update:b",
		"physics:0.5", "sync:b",
		"post:a", "post:b",
		"transformed:b",
	}, cb.calls)
	assert.Equal(t, uint64(1), p.Frame())
}

func TestIsSteppingOnlyDuringStep(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{"a": {update: true}})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("a")

	var during []bool
	cb.onUpdate = func(string) { during = append(during, p.IsStepping()) }
	cb.onPhysics = func() { during = append(during, p.IsStepping()) }

	assert.False(t, p.IsStepping())
	p.Step(0.1)
	assert.False(t, p.IsStepping())
	assert.Equal(t, []bool{true, true}, during)
}

func TestPhysicsOnlyNodeSkipsUpdate(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{"rock": {physics: true}})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("rock")
	cb.reset()

	p.Step(1)
	assert.NotContains(t, cb.calls, "update:rock")
	assert.Contains(t, cb.calls, "physics:1")
	assert.Contains(t, cb.calls, "sync:rock")
}

func TestStepPhysicsRunsWithNoNodes(t *testing.T) {
	cb := newRecordingCallback(nil)
	p := NewSceneSteppingPipeline[string](cb)

	p.Step(0.25)
	assert.Equal(t, []string{"physics:0.25"}, cb.calls)
}

func TestStaticNodesSkipUpdateAndPhysicsSync(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"wall": {update: true, postUpdate: true, static: true, physics: true},
	})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("wall")
	cb.reset()

	p.Step(1)
	assert.Equal(t, []string{"physics:1", "post:wall"}, cb.calls)
}

func TestReentrantStepPanics(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{"a": {update: true}})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("a")
	cb.onUpdate = func(string) { p.Step(0.1) }

	assert.Panics(t, func() { p.Step(0.1) })
	assert.False(t, p.IsStepping(), "stepping flag is cleared even when Step panics")
}

func TestInsertEvaluatesPredicatesOnce(t *testing.T) {
	tr := map[string]traits{"a": {update: true}}
	cb := newRecordingCallback(tr)
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("a")

	tr["a"] = traits{update: false}
	cb.reset()
	p.Step(1)
	assert.Contains(t, cb.calls, "update:a", "membership is fixed at insertion")

	p.InsertSceneNode("a")
	cb.reset()
	p.Step(1)
	assert.NotContains(t, cb.calls, "update:a", "re-insertion re-evaluates membership")
	assert.Equal(t, 1, p.NodeCount())
}

func TestNoDuplicateMembership(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{"a": {update: true}})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("a")
	p.InsertSceneNode("a")
	cb.reset()

	p.Step(1)
	assert.Equal(t, []string{"update:a", "physics:1"}, cb.calls)
}

func TestRemoveFromEverySet(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"a": {update: true, postUpdate: true, physics: true},
		"b": {update: true},
	})
	p := NewSceneSteppingPipeline[string](cb, WithNodes("a", "b"))

	p.RemoveSceneNode("a")
	p.RemoveSceneNode("missing")
	assert.False(t, p.Contains("a"))
	assert.True(t, p.Contains("b"))

	cb.reset()
	p.Step(1)
	assert.Equal(t, []string{"update:b", "physics:1"}, cb.calls)
}

func TestRemoveDuringStepIsDeferred(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"a": {update: true, postUpdate: true},
		"b": {update: true, postUpdate: true},
	})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("a")
	p.InsertSceneNode("b")
	cb.onUpdate = func(n string) {
		if n == "a" {
			p.RemoveSceneNode("b")
		}
	}
	cb.reset()

	p.Step(1)
	assert.Equal(t, []string{"update:a", "physics:1", "post:a", "removed:b"}, cb.calls)
	assert.False(t, p.Contains("b"))
}

func TestRemovalRequestedDuringCleanupIsFinalized(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"parent": {update: true},
		"child":  {update: true},
	})
	p := NewSceneSteppingPipeline[string](cb, WithNodes("parent", "child"))
	cb.onUpdate = func(n string) {
		if n == "parent" {
			p.RemoveSceneNode("parent")
		}
	}
	cb.onRemoved = func(n string) {
		if n == "parent" {
			p.RemoveSceneNode("child")
		}
	}

	p.Step(1)
	assert.Zero(t, p.NodeCount())
	assert.Contains(t, cb.calls, "removed:child")
}

func TestInsertDuringStepIsAppliedAfterCleanup(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"spawner": {update: true},
		"spawned": {update: true},
	})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("spawner")
	spawned := false
	cb.onUpdate = func(n string) {
		if n == "spawner" && !spawned {
			spawned = true
			p.InsertSceneNode("spawned")
			assert.False(t, p.Contains("spawned"))
		}
	}
	cb.reset()

	p.Step(1)
	assert.Equal(t, []string{"update:spawner", "physics:1", "inserted:spawned"}, cb.calls)
	require.True(t, p.Contains("spawned"))

	cb.reset()
	p.Step(1)
	assert.ElementsMatch(t, []string{"update:spawner", "update:spawned", "physics:1"}, cb.calls)
}

func TestInsertThenRemoveDuringStepCancels(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{"a": {update: true}})
	p := NewSceneSteppingPipeline[string](cb)
	p.InsertSceneNode("a")
	cb.onUpdate = func(string) {
		p.InsertSceneNode("ghost")
		p.RemoveSceneNode("ghost")
	}

	p.Step(1)
	assert.False(t, p.Contains("ghost"))
	assert.NotContains(t, cb.calls, "inserted:ghost")
}

func TestTransformEventsDeduplicatedAndFlushedToListeners(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{
		"a": {update: true, physics: true, moves: true},
	})
	var heard []string
	p := NewSceneSteppingPipeline[string](cb,
		WithListener[string](ListenerFunc[string](func(n string) { heard = append(heard, n) })),
	)
	p.InsertSceneNode("a")
	cb.onUpdate = func(n string) { p.NotifyTransformed(n) }
	cb.reset()

	p.Step(1)
	assert.Equal(t, []string{"a"}, heard, "update and physics notifications collapse into one event")

	count := 0
	for _, c := range cb.calls {
		if c == "transformed:a" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	p.Step(1)
	assert.Equal(t, []string{"a", "a"}, heard, "deduplication resets every frame")
}

func TestNotifyOutsideStepIsDeliveredNextFrame(t *testing.T) {
	cb := newRecordingCallback(map[string]traits{"a": {}})
	p := NewSceneSteppingPipeline[string](cb, WithNodes("a"))
	p.NotifyTransformed("a")
	assert.NotContains(t, cb.calls, "transformed:a")

	p.Step(1)
	assert.Contains(t, cb.calls, "transformed:a")
}

func TestPhaseTimingsRecorded(t *testing.T) {
	p := NewSceneSteppingPipeline[string](NopSceneCallback[string]{})
	p.Step(1)
	assert.GreaterOrEqual(t, p.PhaseTimings().Total(), p.PhaseTimings().Update)
}

func TestNewPipelineRequiresCallback(t *testing.T) {
	assert.Panics(t, func() { NewSceneSteppingPipeline[string](nil) })
}
