package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-frame/engine/culling"
	"github.com/Carmen-Shannon/oxy-frame/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frame/engine/physics"
	"github.com/Carmen-Shannon/oxy-frame/engine/script"
	"github.com/Carmen-Shannon/oxy-frame/engine/stepping"
)

// GameObjectCallback is the SceneCallback that steps game objects from their flags and components.
type GameObjectCallback struct {
	world    physics.World
	culling  culling.FrustumCullingManager
	env      script.Environment
	pipeline stepping.SceneSteppingPipeline[game_object.GameObject]
	logger   *slog.Logger
}

var _ stepping.SceneCallback[game_object.GameObject] = &GameObjectCallback{}

// NewGameObjectCallback creates a callback over the given collaborators.
// Call Bind with the pipeline it drives before the first Step.
//
// Parameters:
//   - world: the physics world advanced in StepPhysics (must not be nil)
//   - cm: the culling manager kept in sync with object bounds (must not be nil)
//   - env: the script environment, or nil
//   - logger: logger for script failures, or nil
//
// Returns:
//   - *GameObjectCallback: the new callback
func NewGameObjectCallback(world physics.World, cm culling.FrustumCullingManager, env script.Environment, logger *slog.Logger) *GameObjectCallback {
	if world == nil {
		panic("scene: NewGameObjectCallback requires a non-nil physics.World")
	}
	if cm == nil {
		panic("scene: NewGameObjectCallback requires a non-nil CullingManager")
	}
	return &GameObjectCallback{world: world, culling: cm, env: env, logger: logger}
}

// Bind sets the pipeline that receives transform notifications from PostUpdate.
func (c *GameObjectCallback) Bind(p stepping.SceneSteppingPipeline[game_object.GameObject]) {
	c.pipeline = p
}

// SetScriptEnvironment replaces the environment that runs OnUpdate hooks.
func (c *GameObjectCallback) SetScriptEnvironment(env script.Environment) {
	c.env = env
}

func (c *GameObjectCallback) DoesSceneNodeRequireUpdate(obj game_object.GameObject) bool {
	return NeedsUpdate(obj)
}

// DoesSceneNodeRequirePostUpdate selects objects that opted in, run scripts, or can move.
// Every object able to change its transform must be post-updated so its flag gets cleared.
func (c *GameObjectCallback) DoesSceneNodeRequirePostUpdate(obj game_object.GameObject) bool {
	if obj.HasFlag(game_object.FlagPostUpdate) {
		return true
	}
	if s := obj.Script(); s != nil && s.HasUpdateHook() {
		return true
	}
	return !obj.HasFlag(game_object.FlagStatic)
}

func (c *GameObjectCallback) IsSceneNodeStatic(obj game_object.GameObject) bool {
	return obj.HasFlag(game_object.FlagStatic)
}

func (c *GameObjectCallback) IsPhysicsObject(obj game_object.GameObject) bool {
	return obj.Body() != nil
}

func (c *GameObjectCallback) UpdateSceneNode(obj game_object.GameObject, dt float32) {
	if !obj.Enabled() {
		return
	}
	stepComponents(obj, dt, c.culling)
	obj.Update(dt)
}

func (c *GameObjectCallback) PostUpdateSceneNode(obj game_object.GameObject, dt float32) {
	if obj.Enabled() && c.env != nil {
		runScript(c.env, obj, dt, c.logger)
	}
	if obj.HasFlag(game_object.FlagTransformChanged) {
		if c.pipeline != nil {
			c.pipeline.NotifyTransformed(obj)
		}
		obj.ClearFlag(game_object.FlagTransformChanged)
	}
}

func (c *GameObjectCallback) StepPhysics(dt float32) {
	c.world.Step(dt)
}

func (c *GameObjectCallback) UpdateSceneNodePhysicsTransform(obj game_object.GameObject) bool {
	return obj.SyncFromBody()
}

func (c *GameObjectCallback) OnSceneNodeInserted(obj game_object.GameObject) {
	c.culling.UpdateBounds(obj)
}

func (c *GameObjectCallback) OnSceneNodeRemoved(obj game_object.GameObject) {
	c.culling.Forget(obj)
	if b := obj.Body(); b != nil {
		c.world.RemoveBody(b)
	}
}

func (c *GameObjectCallback) OnSceneNodeTransformed(obj game_object.GameObject) {
	c.culling.UpdateBounds(obj)
}
