package physics

// WorldBuilderOption is a functional option for configuring a World.
type WorldBuilderOption func(*world)

// WithGravity sets the world gravity.
//
// Parameters:
//   - g: acceleration in units per second squared (default {0, -9.81, 0})
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithGravity(g [3]float32) WorldBuilderOption {
	return func(w *world) {
		w.gravity = g
	}
}

// WithGroundHeight sets the y coordinate of the ground plane.
//
// Parameters:
//   - y: ground height (default 0)
//
// Returns:
//   - WorldBuilderOption: option function to apply
func WithGroundHeight(y float32) WorldBuilderOption {
	return func(w *world) {
		w.groundY = y
	}
}

// BodyBuilderOption is a functional option for configuring a Body.
type BodyBuilderOption func(*body)

// WithMass sets the body mass. A mass of zero makes the body immovable.
func WithMass(m float32) BodyBuilderOption {
	return func(b *body) {
		b.mass = max(m, 0)
	}
}

// WithRadius sets the collision radius against the ground plane (default 0.5).
func WithRadius(r float32) BodyBuilderOption {
	return func(b *body) {
		b.radius = max(r, 0)
	}
}

// WithRestitution sets how much vertical speed survives a ground bounce, in [0, 1].
func WithRestitution(e float32) BodyBuilderOption {
	return func(b *body) {
		b.restitution = min(max(e, 0), 1)
	}
}

// WithPosition sets the initial position.
func WithPosition(p [3]float32) BodyBuilderOption {
	return func(b *body) {
		b.position = p
	}
}

// WithVelocity sets the initial velocity.
func WithVelocity(v [3]float32) BodyBuilderOption {
	return func(b *body) {
		b.velocity = v
	}
}
