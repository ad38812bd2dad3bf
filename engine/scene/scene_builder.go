package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-frame/engine/culling"
	"github.com/Carmen-Shannon/oxy-frame/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frame/engine/physics"
	"github.com/Carmen-Shannon/oxy-frame/engine/script"
)

// sceneConfig collects options before the update driver is built.
type sceneConfig struct {
	active  bool
	mode    UpdateMode
	logger  *slog.Logger
	world   physics.World
	culling culling.FrustumCullingManager
	env     script.Environment
	objects []game_object.GameObject
}

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(c *sceneConfig)

// WithActive sets whether the scene is active for stepping and rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.active = active
	}
}

// WithObjects adds initial objects to the scene.
// Objects without IDs will be assigned new IDs.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.objects = append(c.objects, objects...)
	}
}

// WithUpdateMode selects the update driver (default UpdateModePipeline).
//
// Parameters:
//   - mode: the update mode
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateMode(mode UpdateMode) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.mode = mode
	}
}

// WithPhysicsWorld replaces the default physics world.
func WithPhysicsWorld(w physics.World) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.world = w
	}
}

// WithCullingManager replaces the default frustum culling manager.
func WithCullingManager(cm culling.FrustumCullingManager) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.culling = cm
	}
}

// WithScriptEnvironment sets the environment that runs object scripts.
//
// Parameters:
//   - env: the script environment
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithScriptEnvironment(env script.Environment) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.env = env
	}
}

// WithLogger sets the scene logger.
func WithLogger(l *slog.Logger) SceneBuilderOption {
	return func(c *sceneConfig) {
		c.logger = l
	}
}
