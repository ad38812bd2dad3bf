// Package stepping drives one simulation frame over a set of scene nodes through a fixed
// sequence of phases, delegating every per-node decision to an injected SceneCallback.
package stepping

// SceneCallback supplies the policy a SceneSteppingPipeline consults for each node.
// N is the node handle type; the pipeline never looks inside it.
type SceneCallback[N comparable] interface {
	// DoesSceneNodeRequireUpdate reports whether node takes part in the Update phase.
	// Evaluated once when the node is inserted.
	DoesSceneNodeRequireUpdate(node N) bool

	// DoesSceneNodeRequirePostUpdate reports whether node takes part in the PostUpdate phase.
	// Evaluated once when the node is inserted.
	DoesSceneNodeRequirePostUpdate(node N) bool

	// IsSceneNodeStatic reports whether node never moves. Static nodes skip Update and physics sync.
	// Evaluated once when the node is inserted.
	IsSceneNodeStatic(node N) bool

	// IsPhysicsObject reports whether node's transform is driven by the physics world.
	// Evaluated once when the node is inserted.
	IsPhysicsObject(node N) bool

	// UpdateSceneNode runs per-frame game logic for node.
	//
	// Parameters:
	//   - node: the node to update
	//   - dt: delta time in seconds
	UpdateSceneNode(node N, dt float32)

	// PostUpdateSceneNode runs after physics for node and clears its transform-changed flag.
	//
	// Parameters:
	//   - node: the node to post-update
	//   - dt: delta time in seconds
	PostUpdateSceneNode(node N, dt float32)

	// StepPhysics advances the physics world once for the whole scene.
	//
	// Parameters:
	//   - dt: delta time in seconds
	StepPhysics(dt float32)

	// UpdateSceneNodePhysicsTransform copies node's simulated pose back onto the node.
	//
	// Parameters:
	//   - node: a dynamic physics node
	//
	// Returns:
	//   - bool: true if the node's transform changed
	UpdateSceneNodePhysicsTransform(node N) bool

	// OnSceneNodeInserted is called after node has been placed into the pipeline's sets.
	OnSceneNodeInserted(node N)

	// OnSceneNodeRemoved is called after node has been removed from every set.
	OnSceneNodeRemoved(node N)

	// OnSceneNodeTransformed is called during PostEvents for each node transformed this frame.
	OnSceneNodeTransformed(node N)
}

// SceneListener observes transform notifications flushed by a pipeline.
type SceneListener[N comparable] interface {
	OnSceneNodeTransformed(node N)
}

// ListenerFunc adapts a function into a SceneListener.
type ListenerFunc[N comparable] func(node N)

func (f ListenerFunc[N]) OnSceneNodeTransformed(node N) {
	f(node)
}

// NopSceneCallback implements SceneCallback with predicates that return false and
// actions that do nothing. Embed it to override only the methods a callback needs.
type NopSceneCallback[N comparable] struct{}

var _ SceneCallback[int] = NopSceneCallback[int]{}

func (NopSceneCallback[N]) DoesSceneNodeRequireUpdate(N) bool      { return false }
func (NopSceneCallback[N]) DoesSceneNodeRequirePostUpdate(N) bool  { return false }
func (NopSceneCallback[N]) IsSceneNodeStatic(N) bool               { return false }
func (NopSceneCallback[N]) IsPhysicsObject(N) bool                 { return false }
func (NopSceneCallback[N]) UpdateSceneNode(N, float32)             {}
func (NopSceneCallback[N]) PostUpdateSceneNode(N, float32)         {}
func (NopSceneCallback[N]) StepPhysics(float32)                    {}
func (NopSceneCallback[N]) UpdateSceneNodePhysicsTransform(N) bool { return false }
func (NopSceneCallback[N]) OnSceneNodeInserted(N)                  {}
func (NopSceneCallback[N]) OnSceneNodeRemoved(N)                   {}
func (NopSceneCallback[N]) OnSceneNodeTransformed(N)               {}
