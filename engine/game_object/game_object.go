package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/particle"
	"github.com/Carmen-Shannon/oxy-frame/engine/physics"
	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/Carmen-Shannon/oxy-frame/engine/script"
)

// Flags is a bitset of per-object behaviour switches.
type Flags uint32

const (
	// FlagNoUpdate excludes the object from per-frame updates unless a component needs them.
	FlagNoUpdate Flags = 1 << iota
	// FlagStatic marks an object that never moves.
	FlagStatic
	// FlagPostUpdate opts the object into the PostUpdate phase.
	FlagPostUpdate
	// FlagTransformChanged is set by transform setters and cleared after PostUpdate.
	FlagTransformChanged
)

// UpdateFunc is per-frame game logic attached to an object.
type UpdateFunc func(obj GameObject, dt float32)

// RenderSource produces the render commands that draw an object.
type RenderSource interface {
	// AppendRenderCommands appends obj's draw commands to buf.
	//
	// Parameters:
	//   - obj: the object being drawn
	//   - buf: the destination buffer
	AppendRenderCommands(obj GameObject, buf render_command.RenderCommandBuffer)
}

// RenderSourceFunc adapts a function into a RenderSource.
type RenderSourceFunc func(obj GameObject, buf render_command.RenderCommandBuffer)

func (f RenderSourceFunc) AppendRenderCommands(obj GameObject, buf render_command.RenderCommandBuffer) {
	f(obj, buf)
}

type gameObject struct {
	id      uint64
	name    string
	enabled atomic.Bool
	flags   atomic.Uint32

	position      [3]float32
	rotation      [3]float32
	rotationSpeed [3]float32
	scale         [3]float32

	playback  model.Playback
	particles particle.System
	scr       script.Script
	body      physics.Body
	onUpdate  UpdateFunc
	render    RenderSource
}

// GameObject defines the interface for a scene entity: a transform plus optional
// components the scene steps every frame.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object's display name.
	Name() string

	// Enabled returns whether this object is updated and rendered.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is updated and rendered.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Flags returns the object's flag set.
	Flags() Flags

	// HasFlag reports whether every bit in f is set.
	HasFlag(f Flags) bool

	// SetFlag sets the bits in f.
	SetFlag(f Flags)

	// ClearFlag clears the bits in f.
	ClearFlag(f Flags)

	// Position returns the object's world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// SetPosition moves the object and marks its transform as changed.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// SetRotation rotates the object and marks its transform as changed.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// RotationSpeed returns the angular velocity applied on every update, in radians per second.
	//
	// Returns:
	//   - rx, ry, rz: rotation speed values
	RotationSpeed() (rx, ry, rz float32)

	// SetRotationSpeed sets the angular velocity applied on every update.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation speed values
	SetRotationSpeed(rx, ry, rz float32)

	// Scale returns the object's scale.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// SetScale scales the object and marks its transform as changed.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// ModelMatrix builds the column-major world matrix from the transform.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// Playback returns the animated model component, or nil.
	Playback() model.Playback

	// Particles returns the particle system component, or nil.
	Particles() particle.System

	// Script returns the script component, or nil.
	Script() script.Script

	// Body returns the physics body driving this object, or nil.
	Body() physics.Body

	// RenderSource returns the object's render source, or nil.
	RenderSource() RenderSource

	// HasUpdateHook reports whether Update does any work.
	HasUpdateHook() bool

	// Update applies the rotation speed and runs the object's update hook.
	//
	// Parameters:
	//   - dt: delta time in seconds
	Update(dt float32)

	// SyncFromBody copies the physics body position onto the object.
	//
	// Returns:
	//   - bool: true if the body moved during the last physics step
	SyncFromBody() bool
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new, enabled GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	if obj.body != nil {
		obj.position = obj.body.Position()
	}
	if obj.particles != nil {
		obj.particles.SetOrigin(obj.position)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Flags() Flags {
	return Flags(g.flags.Load())
}

func (g *gameObject) HasFlag(f Flags) bool {
	return g.Flags()&f == f
}

func (g *gameObject) SetFlag(f Flags) {
	g.flags.Or(uint32(f))
}

func (g *gameObject) ClearFlag(f Flags) {
	g.flags.And(^uint32(f))
}

func (g *gameObject) Position() (x, y, z float32) {
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.position = [3]float32{x, y, z}
	if g.body != nil {
		g.body.SetPosition(g.position)
	}
	g.transformed()
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.rotation = [3]float32{rx, ry, rz}
	g.transformed()
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	return g.rotationSpeed[0], g.rotationSpeed[1], g.rotationSpeed[2]
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.rotationSpeed = [3]float32{rx, ry, rz}
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.scale = [3]float32{sx, sy, sz}
	g.transformed()
}

func (g *gameObject) ModelMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], g.position, g.rotation, g.scale)
	return m
}

func (g *gameObject) Playback() model.Playback {
	return g.playback
}

func (g *gameObject) Particles() particle.System {
	return g.particles
}

func (g *gameObject) Script() script.Script {
	return g.scr
}

func (g *gameObject) Body() physics.Body {
	return g.body
}

func (g *gameObject) RenderSource() RenderSource {
	return g.render
}

func (g *gameObject) HasUpdateHook() bool {
	return g.onUpdate != nil || g.rotationSpeed != [3]float32{}
}

func (g *gameObject) Update(dt float32) {
	if g.rotationSpeed != [3]float32{} {
		for i := range 3 {
			g.rotation[i] += g.rotationSpeed[i] * dt
		}
		g.transformed()
	}
	if g.onUpdate != nil {
		g.onUpdate(g, dt)
	}
}

func (g *gameObject) SyncFromBody() bool {
	if g.body == nil || !g.body.Moved() {
		return false
	}
	g.position = g.body.Position()
	g.transformed()
	return true
}

func (g *gameObject) transformed() {
	g.SetFlag(FlagTransformChanged)
	if g.particles != nil {
		g.particles.SetOrigin(g.position)
	}
}
