package model

import "github.com/chewxy/math32"

// Bounds is an axis-aligned bounding box in model space.
type Bounds struct {
	// Min is the minimum corner of the box.
	Min [3]float32

	// Max is the maximum corner of the box.
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) * 0.5,
		(b.Min[1] + b.Max[1]) * 0.5,
		(b.Min[2] + b.Max[2]) * 0.5,
	}
}

// Radius returns the radius of the sphere centred on Center that encloses the box.
func (b Bounds) Radius() float32 {
	dx := b.Max[0] - b.Min[0]
	dy := b.Max[1] - b.Min[1]
	dz := b.Max[2] - b.Min[2]
	return 0.5 * math32.Sqrt(dx*dx+dy*dy+dz*dz)
}

// AnimationClip represents a single animation (walk, run, attack, etc.).
type AnimationClip struct {
	// Name is the animation identifier.
	Name string

	// Duration is the total length of the animation in seconds.
	Duration float32

	// TicksPerSecond is the sample rate of the animation.
	TicksPerSecond float32

	// Extent is how far the clip can push vertices beyond the bind-pose bounds.
	// Culling inflates the model's bounding sphere by this amount while the clip plays.
	Extent float32
}
