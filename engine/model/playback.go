package model

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrUnknownClip is returned by Playback.Play for a clip name the model does not have.
var ErrUnknownClip = errors.New("model: unknown animation clip")

// Playback tracks the playhead of one model instance.
type Playback interface {
	// Model returns the model being played.
	Model() Model

	// Play starts the named clip from time zero and unpauses playback.
	//
	// Parameters:
	//   - clip: the clip name
	//
	// Returns:
	//   - error: ErrUnknownClip if the model has no such clip
	Play(clip string) error

	// Pause freezes the playhead.
	Pause()

	// Resume unfreezes the playhead.
	Resume()

	// Paused reports whether the playhead is frozen. A playback with no clip is paused.
	Paused() bool

	// Advance moves the playhead by dt scaled by the playback speed.
	// Looping clips wrap; non-looping clips stop at their end.
	//
	// Parameters:
	//   - dt: delta time in seconds
	//
	// Returns:
	//   - bool: true if the playhead moved
	Advance(dt float32) bool

	// Time returns the playhead position in seconds.
	Time() float32

	// Clip returns the current clip, if any.
	Clip() (AnimationClip, bool)

	// SetLooping sets whether the clip wraps at its end.
	SetLooping(loop bool)

	// Looping reports whether the clip wraps at its end.
	Looping() bool

	// SetSpeed sets the playback rate multiplier.
	SetSpeed(speed float32)

	// Finished reports whether a non-looping clip has reached its end.
	Finished() bool
}

type playback struct {
	model   Model
	clip    AnimationClip
	hasClip bool
	time    float32
	speed   float32
	looping bool
	paused  bool
}

var _ Playback = &playback{}

// NewPlayback creates a paused Playback for m with looping enabled and speed 1.
//
// Parameters:
//   - m: the model to play (must not be nil)
//
// Returns:
//   - Playback: the new playback
func NewPlayback(m Model) Playback {
	if m == nil {
		panic("model: NewPlayback requires a non-nil Model")
	}
	return &playback{model: m, speed: 1, looping: true, paused: true}
}

func (p *playback) Model() Model {
	return p.model
}

func (p *playback) Play(name string) error {
	clip, ok := p.model.Animation(name)
	if !ok {
		return fmt.Errorf("%w: %q on model %q", ErrUnknownClip, name, p.model.Name())
	}
	p.clip = clip
	p.hasClip = true
	p.time = 0
	p.paused = false
	return nil
}

func (p *playback) Pause() {
	p.paused = true
}

func (p *playback) Resume() {
	if p.hasClip {
		p.paused = false
	}
}

func (p *playback) Paused() bool {
	return p.paused || !p.hasClip
}

func (p *playback) Advance(dt float32) bool {
	if p.Paused() || p.Finished() || dt <= 0 {
		return false
	}
	p.time += dt * p.speed

	d := p.clip.Duration
	if d <= 0 {
		p.time = 0
		return true
	}
	if p.time >= d {
		if p.looping {
			p.time = math32.Mod(p.time, d)
		} else {
			p.time = d
		}
	}
	if p.time < 0 {
		p.time = 0
	}
	return true
}

func (p *playback) Time() float32 {
	return p.time
}

func (p *playback) Clip() (AnimationClip, bool) {
	return p.clip, p.hasClip
}

func (p *playback) SetLooping(loop bool) {
	p.looping = loop
}

func (p *playback) Looping() bool {
	return p.looping
}

func (p *playback) SetSpeed(speed float32) {
	p.speed = speed
}

func (p *playback) Finished() bool {
	return p.hasClip && !p.looping && p.clip.Duration > 0 && p.time >= p.clip.Duration
}
