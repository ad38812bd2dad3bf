package scene

import (
	"log/slog"
	"slices"

	"github.com/Carmen-Shannon/oxy-frame/engine/culling"
	"github.com/Carmen-Shannon/oxy-frame/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/script"
)

// NeedsUpdate reports whether obj has per-frame work: a script with an update hook,
// a particle system, or no FlagNoUpdate.
//
// Parameters:
//   - obj: the object to test
//
// Returns:
//   - bool: true if obj should be stepped every frame
func NeedsUpdate(obj game_object.GameObject) bool {
	if s := obj.Script(); s != nil && s.HasUpdateHook() {
		return true
	}
	if obj.Particles() != nil {
		return true
	}
	return !obj.HasFlag(game_object.FlagNoUpdate)
}

// DefaultSceneUpdateManager steps a flat list of objects in insertion order on the calling goroutine.
// It has no physics phase and no transform events; Scene handles both in UpdateModeSimple.
type DefaultSceneUpdateManager struct {
	nodes  []game_object.GameObject
	env    script.Environment
	logger *slog.Logger
}

// NewDefaultSceneUpdateManager creates an empty manager.
//
// Parameters:
//   - env: the owning scene's script environment, or nil
//   - logger: logger for script failures (nil falls back to the package logger)
//
// Returns:
//   - *DefaultSceneUpdateManager: the new manager
func NewDefaultSceneUpdateManager(env script.Environment, logger *slog.Logger) *DefaultSceneUpdateManager {
	return &DefaultSceneUpdateManager{env: env, logger: logger}
}

// SetScriptEnvironment replaces the script environment used for OnUpdate hooks.
func (m *DefaultSceneUpdateManager) SetScriptEnvironment(env script.Environment) {
	m.env = env
}

// AddSceneNode appends obj if NeedsUpdate holds. Adding a present object does nothing.
//
// Returns:
//   - bool: true if obj was added
func (m *DefaultSceneUpdateManager) AddSceneNode(obj game_object.GameObject) bool {
	if !NeedsUpdate(obj) || slices.Contains(m.nodes, obj) {
		return false
	}
	m.nodes = append(m.nodes, obj)
	return true
}

// RemoveSceneNode removes obj, keeping the order of the remaining objects.
func (m *DefaultSceneUpdateManager) RemoveSceneNode(obj game_object.GameObject) {
	if i := slices.Index(m.nodes, obj); i >= 0 {
		m.nodes = slices.Delete(m.nodes, i, i+1)
	}
}

// Nodes returns the stepped objects in order. The slice must not be modified.
func (m *DefaultSceneUpdateManager) Nodes() []game_object.GameObject {
	return m.nodes
}

// Len returns the number of stepped objects.
func (m *DefaultSceneUpdateManager) Len() int {
	return len(m.nodes)
}

// Step advances every enabled object once, in insertion order.
//
// Parameters:
//   - dt: delta time in seconds
//   - cm: receives bound updates for animated and particle objects (may be nil)
func (m *DefaultSceneUpdateManager) Step(dt float32, cm culling.CullingManager) {
	for _, obj := range m.nodes {
		if !obj.Enabled() {
			continue
		}
		stepComponents(obj, dt, cm)
		obj.Update(dt)
		if m.env != nil {
			runScript(m.env, obj, dt, m.logger)
		}
	}
}

// stepComponents advances obj's animation and particles, refreshing bounds after each.
func stepComponents(obj game_object.GameObject, dt float32, cm culling.CullingManager) {
	if pb := obj.Playback(); pb != nil && !pb.Paused() {
		pb.Advance(dt)
		if cm != nil {
			cm.UpdateBounds(obj)
		}
	}
	if ps := obj.Particles(); ps != nil && ps.Playing() {
		ps.Advance(dt)
		if cm != nil {
			cm.UpdateBounds(obj)
		}
	}
}

func runScript(env script.Environment, obj game_object.GameObject, dt float32, logger *slog.Logger) {
	s := obj.Script()
	if s == nil || !s.HasUpdateHook() {
		return
	}
	if err := env.PostUpdate(obj, dt); err != nil {
		logging.Or(logger).Warn("script update failed", "object", obj.ID(), "script", s.Name(), "error", err)
	}
}
