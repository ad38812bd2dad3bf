package game_object

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/particle"
	"github.com/Carmen-Shannon/oxy-frame/engine/physics"
	"github.com/Carmen-Shannon/oxy-frame/engine/script"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the display name of the GameObject.
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is updated and rendered.
//
// Parameters:
//   - enabled: true to keep the object active (default true)
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithFlags sets the initial flag set.
//
// Parameters:
//   - f: flags to set
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the flags
func WithFlags(f Flags) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.flags.Store(uint32(f))
	}
}

// WithPosition sets the initial position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = [3]float32{x, y, z}
	}
}

// WithRotation sets the initial rotation.
//
// Parameters:
//   - rx, ry, rz: rotation angles in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = [3]float32{rx, ry, rz}
	}
}

// WithRotationSpeed sets a constant angular velocity in radians per second.
//
// Parameters:
//   - rx, ry, rz: rotation speed values
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = [3]float32{rx, ry, rz}
	}
}

// WithScale sets the initial scale.
//
// Parameters:
//   - sx, sy, sz: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = [3]float32{sx, sy, sz}
	}
}

// WithModel attaches an animated model instance.
//
// Parameters:
//   - p: the model playback
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the playback
func WithModel(p model.Playback) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.playback = p
	}
}

// WithParticles attaches a particle system. Its origin follows the object's position.
//
// Parameters:
//   - s: the particle system
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the particle system
func WithParticles(s particle.System) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.particles = s
	}
}

// WithScript attaches a script.
func WithScript(s script.Script) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scr = s
	}
}

// WithBody lets a physics body drive the object's position.
// The object's position is taken from the body once all options are applied.
func WithBody(b physics.Body) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.body = b
	}
}

// WithUpdate sets the per-frame update hook.
//
// Parameters:
//   - fn: the hook
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the update hook
func WithUpdate(fn UpdateFunc) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.onUpdate = fn
	}
}

// WithRenderSource sets what draws the object.
func WithRenderSource(src RenderSource) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.render = src
	}
}
