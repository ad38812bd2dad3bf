package model

// ModelBuilderOption is a functional option for configuring a Model during construction.
type ModelBuilderOption func(*model)

// WithName sets the model identifier.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithBounds sets the bind-pose bounding box.
//
// Parameters:
//   - min: minimum corner
//   - max: maximum corner
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithBounds(min, max [3]float32) ModelBuilderOption {
	return func(m *model) {
		m.bounds = Bounds{Min: min, Max: max}
	}
}

// WithAnimations appends animation clips to the model.
//
// Parameters:
//   - clips: the clips to add
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithAnimations(clips ...AnimationClip) ModelBuilderOption {
	return func(m *model) {
		m.animations = append(m.animations, clips...)
	}
}
