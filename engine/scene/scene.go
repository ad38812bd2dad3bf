package scene

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-frame/engine/culling"
	"github.com/Carmen-Shannon/oxy-frame/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/physics"
	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/Carmen-Shannon/oxy-frame/engine/script"
	"github.com/Carmen-Shannon/oxy-frame/engine/stepping"
)

// UpdateMode selects the driver a Scene steps its objects with.
type UpdateMode int

const (
	// UpdateModePipeline drives objects through the five-phase stepping pipeline.
	UpdateModePipeline UpdateMode = iota
	// UpdateModeSimple drives objects with a DefaultSceneUpdateManager followed by a physics step.
	UpdateModeSimple
)

func (m UpdateMode) String() string {
	switch m {
	case UpdateModePipeline:
		return "pipeline"
	case UpdateModeSimple:
		return "simple"
	default:
		return "unknown"
	}
}

// Scene owns a set of game objects and steps them one frame at a time.
//
// Add and Remove may be called from any goroutine, including from inside update hooks;
// the change reaches the update driver at the start of the next Step.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Active reports whether the engine steps and records this scene.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive sets whether the engine steps and records this scene.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// Mode returns the update driver in use.
	Mode() UpdateMode

	// Add registers obj, assigning an ID if it has none.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove unregisters the object with the given ID. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: object count
	Count() int

	// Objects returns a snapshot of the registered objects in insertion order.
	Objects() []game_object.GameObject

	// Step advances the scene by one frame. Must not be called concurrently with itself.
	//
	// Parameters:
	//   - dt: delta time in seconds
	Step(dt float32)

	// Record appends the render commands of every enabled, visible object with a render source.
	//
	// Parameters:
	//   - buf: the destination buffer
	//
	// Returns:
	//   - int: the number of objects recorded
	Record(buf render_command.RenderCommandBuffer) int

	// SetViewProjection updates the frustum used to cull objects in Record.
	//
	// Parameters:
	//   - viewProj: column-major view-projection matrix (16 elements)
	SetViewProjection(viewProj []float32)

	// Physics returns the scene's physics world.
	Physics() physics.World

	// Culling returns the scene's culling manager.
	Culling() culling.FrustumCullingManager

	// ScriptEnvironment returns the scene's script environment, or nil.
	ScriptEnvironment() script.Environment

	// SetScriptEnvironment replaces the script environment. Pass nil to disable scripts.
	// Must not be called while Step is running.
	SetScriptEnvironment(env script.Environment)

	// AddTransformListener registers fn to observe objects whose transform changed.
	// Only UpdateModePipeline delivers notifications.
	AddTransformListener(fn func(obj game_object.GameObject))

	// Frame returns the number of completed Step calls.
	Frame() uint64

	// PhaseTimings returns the pipeline phase durations of the last Step.
	// Zero in UpdateModeSimple.
	PhaseTimings() stepping.PhaseTimings
}

type pendingChange struct {
	obj    game_object.GameObject
	remove bool
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active atomic.Bool
	mode   UpdateMode
	logger *slog.Logger

	registry map[uint64]game_object.GameObject
	order    []game_object.GameObject
	nextID   uint64
	pending  []pendingChange

	world   physics.World
	culling culling.FrustumCullingManager
	env     script.Environment

	// Exactly one driver is set, chosen by mode.
	callback *GameObjectCallback
	pipeline stepping.SceneSteppingPipeline[game_object.GameObject]
	simple   *DefaultSceneUpdateManager

	// Objects driven by physics in UpdateModeSimple.
	bodies []game_object.GameObject

	frame atomic.Uint64
}

var _ Scene = &scene{}

// NewScene creates an inactive scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.RWMutex{},
		name:     name,
		registry: make(map[uint64]game_object.GameObject),
		nextID:   1,
	}
	cfg := &sceneConfig{}
	for _, option := range options {
		option(cfg)
	}
	s.mode = cfg.mode
	s.logger = logging.Or(cfg.logger).With("scene", name)
	s.world = cfg.world
	if s.world == nil {
		s.world = physics.NewWorld()
	}
	s.culling = cfg.culling
	if s.culling == nil {
		s.culling = culling.NewFrustumCullingManager()
	}
	s.env = cfg.env
	s.active.Store(cfg.active)

	switch s.mode {
	case UpdateModeSimple:
		s.simple = NewDefaultSceneUpdateManager(s.env, s.logger)
	default:
		s.mode = UpdateModePipeline
		s.callback = NewGameObjectCallback(s.world, s.culling, s.env, s.logger)
		s.pipeline = stepping.NewSceneSteppingPipeline[game_object.GameObject](s.callback,
			stepping.WithLogger[game_object.GameObject](s.logger))
		s.callback.Bind(s.pipeline)
	}

	for _, obj := range cfg.objects {
		s.Add(obj)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active.Load()
}

func (s *scene) SetActive(active bool) {
	s.active.Store(active)
}

func (s *scene) Mode() UpdateMode {
	return s.mode
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: cannot Add a nil GameObject")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	if existing, ok := s.registry[obj.ID()]; ok {
		if existing == obj {
			return obj.ID()
		}
		panic("scene: duplicate GameObject ID")
	}
	s.registry[obj.ID()] = obj
	s.order = append(s.order, obj)
	s.pending = append(s.pending, pendingChange{obj: obj})
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.registry[id]
	if !exists {
		return
	}
	delete(s.registry, id)
	if i := slices.Index(s.order, obj); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.pending = append(s.pending, pendingChange{obj: obj, remove: true})
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func (s *scene) Step(dt float32) {
	s.applyPending()

	switch s.mode {
	case UpdateModeSimple:
		s.stepSimple(dt)
	default:
		s.pipeline.Step(dt)
	}
	s.frame.Add(1)
}

// stepSimple runs the flat update list, then physics, then refreshes bounds of moved objects.
func (s *scene) stepSimple(dt float32) {
	s.simple.Step(dt, s.culling)
	s.world.Step(dt)
	for _, obj := range s.bodies {
		obj.SyncFromBody()
	}
	for _, obj := range s.Objects() {
		if obj.HasFlag(game_object.FlagTransformChanged) {
			s.culling.UpdateBounds(obj)
			obj.ClearFlag(game_object.FlagTransformChanged)
		}
	}
}

// applyPending hands queued Add and Remove calls to the update driver.
func (s *scene) applyPending() {
	s.mu.Lock()
	changes := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, c := range changes {
		switch {
		case c.remove && s.pipeline != nil:
			s.pipeline.RemoveSceneNode(c.obj)
		case c.remove:
			s.simple.RemoveSceneNode(c.obj)
			if i := slices.Index(s.bodies, c.obj); i >= 0 {
				s.bodies = slices.Delete(s.bodies, i, i+1)
			}
			s.culling.Forget(c.obj)
			if b := c.obj.Body(); b != nil {
				s.world.RemoveBody(b)
			}
		case s.pipeline != nil:
			s.pipeline.InsertSceneNode(c.obj)
		default:
			s.simple.AddSceneNode(c.obj)
			if c.obj.Body() != nil {
				s.bodies = append(s.bodies, c.obj)
			}
			s.culling.UpdateBounds(c.obj)
		}
	}
}

func (s *scene) Record(buf render_command.RenderCommandBuffer) int {
	n := 0
	for _, obj := range s.Objects() {
		src := obj.RenderSource()
		if src == nil || !obj.Enabled() || !s.culling.Visible(obj) {
			continue
		}
		src.AppendRenderCommands(obj, buf)
		n++
	}
	return n
}

func (s *scene) SetViewProjection(viewProj []float32) {
	s.culling.SetViewProjection(viewProj)
}

func (s *scene) Physics() physics.World {
	return s.world
}

func (s *scene) Culling() culling.FrustumCullingManager {
	return s.culling
}

func (s *scene) ScriptEnvironment() script.Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.env
}

func (s *scene) SetScriptEnvironment(env script.Environment) {
	s.mu.Lock()
	s.env = env
	s.mu.Unlock()
	if s.callback != nil {
		s.callback.SetScriptEnvironment(env)
	}
	if s.simple != nil {
		s.simple.SetScriptEnvironment(env)
	}
}

func (s *scene) AddTransformListener(fn func(obj game_object.GameObject)) {
	if s.pipeline != nil {
		s.pipeline.AddListener(stepping.ListenerFunc[game_object.GameObject](fn))
	}
}

func (s *scene) Frame() uint64 {
	return s.frame.Load()
}

func (s *scene) PhaseTimings() stepping.PhaseTimings {
	if s.pipeline == nil {
		return stepping.PhaseTimings{}
	}
	return s.pipeline.PhaseTimings()
}
