package model

// model is the implementation of the Model interface.
type model struct {
	name       string
	bounds     Bounds
	animations []AnimationClip
}

// Model defines the interface for the CPU-side description of a 3D model:
// its bind-pose bounds and the animation clips it can play.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Bounds returns the model-space bounding box in bind pose.
	//
	// Returns:
	//   - Bounds: the axis-aligned bounding box
	Bounds() Bounds

	// BoundingRadius returns the radius of the sphere enclosing Bounds.
	//
	// Returns:
	//   - float32: the bounding sphere radius
	BoundingRadius() float32

	// Animations retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []AnimationClip: the animation clips
	Animations() []AnimationClip

	// Animation looks up a clip by name.
	//
	// Parameters:
	//   - name: the clip name
	//
	// Returns:
	//   - AnimationClip: the clip, if found
	//   - bool: true if the model has a clip with that name
	Animation(name string) (AnimationClip, bool)

	// AnimationCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// AnimationNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the clip names in declaration order
	AnimationNames() []string
}

var _ Model = &model{}

// NewModel creates a Model with the given options.
//
// Parameters:
//   - options: functional options for the model
//
// Returns:
//   - Model: the new model
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Bounds() Bounds {
	return m.bounds
}

func (m *model) BoundingRadius() float32 {
	return m.bounds.Radius()
}

func (m *model) Animations() []AnimationClip {
	return m.animations
}

func (m *model) Animation(name string) (AnimationClip, bool) {
	for _, clip := range m.animations {
		if clip.Name == name {
			return clip, true
		}
	}
	return AnimationClip{}, false
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) AnimationNames() []string {
	names := make([]string, len(m.animations))
	for i, clip := range m.animations {
		names[i] = clip.Name
	}
	return names
}
