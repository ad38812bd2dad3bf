// Package engine runs the frame loop: a fixed-rate update goroutine that steps scenes on pooled
// worker threads and records render commands, and a render goroutine that drains main-thread
// jobs and replays the most recently published frame.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/job"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frame/engine/render_command"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/Carmen-Shannon/oxy-frame/engine/thread_pool"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
)

// Stats is a snapshot of the engine's loop counters.
type Stats struct {
	Ticks            uint64 // update ticks that stepped the simulation
	InlineTicks      uint64 // ticks run on the tick goroutine because no thread was free
	SkippedTicks     uint64 // ticks dropped because the previous update was still running
	PausedTicks      uint64 // ticks dropped while paused
	PublishedFrames  uint64 // command frames swapped to the render side
	RenderFrames     uint64 // render loop iterations
	JobsRun          uint64 // main-thread jobs executed by the render loop
	FrontCommands    int    // commands in the frame currently being replayed
	FailedCommands   uint64 // replayed commands that returned an error
	PasslessCommands uint64 // pass commands replayed with no render pass open (headless)
}

// engine implements the Engine interface.
// Coordinates the update, render and window goroutines.
type engine struct {
	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once

	tickRateChannel chan time.Duration
	tickRate        atomic.Int64 // time.Duration between update ticks
	frameLimit      atomic.Int64 // minimum render frame time.Duration; 0 = uncapped

	window   window.Window
	renderer renderer.Renderer
	logger   *slog.Logger

	pool     thread_pool.ThreadPool
	ownsPool bool
	threads  int
	jobs     job.JobQueue
	frames   render_command.FrameCommandBuffers
	commands *renderer.Frame

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool
	paused           atomic.Bool

	scenesMu sync.RWMutex
	scenes   map[int]scene.Scene

	callbackMu     sync.RWMutex
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)
	keyCallback    func(keyCode uint32, down bool)

	configPath string

	// Update loop state, owned by the tick goroutine.
	updating atomic.Bool
	thread   thread_pool.Thread

	ticks        atomic.Uint64
	inlineTicks  atomic.Uint64
	skippedTicks atomic.Uint64
	pausedTicks  atomic.Uint64
	renderFrames atomic.Uint64
	jobsRun      atomic.Uint64

	failedCommands   atomic.Uint64
	passlessCommands atomic.Uint64
}

// Engine is the main entry point for the engine.
// It orchestrates the update loop, render loop, and window management.
type Engine interface {
	job.FrameStepper

	// Window returns the window the engine presents to, or nil when headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer replaying command frames, or nil when headless.
	Renderer() renderer.Renderer

	// CommandFrame returns the factory for pass commands bound to the render loop's active pass.
	// Commands it creates are released when the frame that recorded them is retired.
	CommandFrame() *renderer.Frame

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ProfilerEnabled reports whether profiling output is on.
	ProfilerEnabled() bool

	// SetPaused stops or resumes simulation ticks. Rendering continues while paused.
	//
	// Parameters:
	//   - paused: true to pause
	SetPaused(paused bool)

	// Paused reports whether simulation ticks are suspended.
	Paused() bool

	// SetTickRate sets the update tick rate in ticks per second.
	// If the engine is running, the change takes effect on the next tick.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called at the start of every simulation step,
	// before scenes are stepped. It runs on a worker thread.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called on the render goroutine after each frame
	// is presented.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback registers the function called on the render goroutine after the
	// surface has been resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyCallback registers the function receiving key events not consumed by the engine.
	// Escape, F3 and P are handled by the engine (quit, profiler, pause) and not forwarded.
	//
	// Parameters:
	//   - callback: function receiving the key code and whether it was pressed
	SetKeyCallback(callback func(keyCode uint32, down bool))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key, replacing any scene already there.
	// Scenes are stepped and recorded in ascending key order.
	//
	// Parameters:
	//   - key: the z-index (lower first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key, or nil.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Post enqueues a job for the render goroutine. Safe from any goroutine.
	//
	// Parameters:
	//   - j: the job to run at the start of a render frame
	Post(j job.Job)

	// RenderFrame runs one render loop iteration: drain main-thread jobs, replay the
	// published command frame, then call the render callback.
	// Run calls it continuously; call it directly only when driving the engine by hand.
	//
	// Parameters:
	//   - dt: delta time in seconds since the previous render frame
	RenderFrame(dt float32)

	// Run starts the engine and blocks until Quit is called or the window closes.
	// With a window, Run must be called from the goroutine that created it.
	Run()

	// RunFor is Run bounded by ctx.
	//
	// Parameters:
	//   - ctx: stops the engine when done
	//
	// Returns:
	//   - error: ctx.Err() if ctx ended the run, nil if Quit or the window did
	RunFor(ctx context.Context) error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times and from any goroutine; subsequent calls are no-ops.
	Quit()

	// Stats returns a snapshot of the loop counters.
	Stats() Stats
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Without WithWindow and WithRenderer the engine runs headless: frames are still recorded,
// published and replayed, just never presented.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		jobs:            job.NewJobQueue(),
	}
	e.tickRate.Store(int64(time.Second / 60))
	for _, opt := range options {
		opt(e)
	}

	if e.pool == nil {
		var poolOpts []thread_pool.ThreadPoolBuilderOption
		if e.threads > 0 {
			poolOpts = append(poolOpts, thread_pool.WithThreadCount(e.threads))
		}
		poolOpts = append(poolOpts, thread_pool.WithLogger(e.logger))
		e.pool = thread_pool.NewThreadPool(poolOpts...)
		e.ownsPool = true
	}
	e.frames = render_command.NewFrameCommandBuffers(
		render_command.WithBufferOptions(
			render_command.WithLogger(e.logger),
			render_command.WithErrorHandler(e.commandFailed),
		),
	)
	e.commands = renderer.NewFrame()
	e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.Post(NewResizeJob(width, height, e.applyResize))
		})
		e.window.SetKeyDownCallback(func(keyCode uint32) { e.handleKey(keyCode, true) })
		e.window.SetKeyUpCallback(func(keyCode uint32) { e.handleKey(keyCode, false) })
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) CommandFrame() *renderer.Frame {
	return e.commands
}

func (e *engine) log() *slog.Logger {
	return logging.Or(e.logger)
}

// commandFailed reports a replayed command's error. Headless replays hit ErrNoActivePass for
// every pass command on every frame, so only the first one is logged.
func (e *engine) commandFailed(_ render_command.RenderCommand, err error) {
	if errors.Is(err, renderer.ErrNoActivePass) {
		if e.passlessCommands.Add(1) == 1 {
			e.log().Debug("pass commands replayed without a render pass", "error", err)
		}
		return
	}
	e.failedCommands.Add(1)
	e.log().Warn("render command failed", "error", err)
}

// StepFrame advances every active scene by dt in ascending z-index order, records their
// commands into the back buffer and publishes it. This is the frame boundary.
func (e *engine) StepFrame(dt float32) {
	e.callbackMu.RLock()
	tick := e.tickCallback
	e.callbackMu.RUnlock()
	if tick != nil {
		tick(dt)
	}

	active := e.activeScenes()
	for _, s := range active {
		s.Step(dt)
	}
	back := e.frames.Back()
	for _, s := range active {
		s.Record(back)
	}
	e.frames.Swap()
}

// activeScenes returns the active scenes sorted by z-index.
func (e *engine) activeScenes() []scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	keys := slices.Sorted(maps.Keys(e.scenes))
	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

func (e *engine) Run() {
	_ = e.RunFor(context.Background())
}

func (e *engine) RunFor(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		panic("engine: Run called twice")
	}

	if e.configPath != "" {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go e.watchConfig(watchCtx)
	}

	e.wg.Add(2)
	go e.handleUpdate()
	go e.handleRender()

	var ctxErr error
	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			e.Quit()
		case <-e.quitChannel:
		}
		close(stopped)
	}()

	if e.window != nil {
		e.window.ProcessMessages()
		e.Quit()
	}
	<-stopped
	e.wg.Wait()

	if e.thread != nil {
		e.pool.UnacquireThread(e.thread)
		e.thread = nil
	}
	if e.ownsPool {
		e.pool.Close()
	}
	return ctxErr
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// handleUpdate runs the fixed-rate tick loop in its own goroutine.
// Each tick hands a GameUpdateJob to a worker thread, or runs it inline when no thread is free.
// A tick that arrives while the previous update is still running is skipped; its time is
// carried into the next delta.
func (e *engine) handleUpdate() {
	defer e.wg.Done()

	ticker := time.NewTicker(time.Duration(e.tickRate.Load()))
	defer ticker.Stop()

	lastTick := time.Now()
	for {
		select {
		case <-e.quitChannel:
			if e.thread != nil {
				e.thread.Wait()
			}
			return
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		case now := <-ticker.C:
			if e.paused.Load() {
				e.pausedTicks.Add(1)
				lastTick = now
				continue
			}
			if !e.updating.CompareAndSwap(false, true) {
				e.skippedTicks.Add(1)
				continue
			}
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.submitUpdate(dt)
		}
	}
}

func (e *engine) submitUpdate(dt float32) {
	j := job.NewGameUpdateJob(e, dt, func() {
		e.ticks.Add(1)
		e.updating.Store(false)
	})

	// The previous job has finished (updating was false), so handing the thread back does not block.
	if e.thread != nil {
		e.pool.UnacquireThread(e.thread)
		e.thread = nil
	}
	t := e.pool.AcquireThread(false)
	if t == nil {
		e.inlineTicks.Add(1)
		e.runInline(j)
		return
	}
	e.thread = t
	t.Run(j)
}

func (e *engine) runInline(j *job.GameUpdateJob) {
	defer func() {
		if r := recover(); r != nil {
			e.log().Error("update panicked", "panic", r)
			e.updating.Store(false)
		}
	}()
	j.Run()
}

// handleRender runs the render loop in its own goroutine until quit.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.log().Error("render goroutine recovered from panic", "panic", r)
			e.Quit()
		}
	}()

	lastRender := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		e.RenderFrame(dt)

		if limit := time.Duration(e.frameLimit.Load()); limit > 0 {
			if remaining := limit - time.Since(lastRender); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}

func (e *engine) RenderFrame(dt float32) {
	e.jobsRun.Add(uint64(e.jobs.Drain()))

	if e.renderer == nil {
		e.frames.ExecuteFront()
	} else {
		e.presentFrame()
	}

	e.callbackMu.RLock()
	render := e.renderCallback
	e.callbackMu.RUnlock()
	if render != nil {
		render(dt)
	}

	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
	e.renderFrames.Add(1)
}

func (e *engine) presentFrame() {
	pass, err := e.renderer.BeginFrame()
	if err != nil {
		// Surface lost or outdated; the next resize job reconfigures it.
		e.log().Debug("begin frame failed", "error", err)
		return
	}
	e.commands.SetPass(pass)
	e.frames.ExecuteFront()
	e.commands.Clear()
	if err := e.renderer.EndFrame(); err != nil {
		e.log().Warn("end frame failed", "error", err)
		return
	}
	e.renderer.Present()
}

func (e *engine) applyResize(width, height int) {
	if e.renderer != nil {
		if err := e.renderer.Resize(width, height); err != nil {
			e.log().Warn("resize failed", "width", width, "height", height, "error", err)
			return
		}
	}
	e.callbackMu.RLock()
	cb := e.resizeCallback
	e.callbackMu.RUnlock()
	if cb != nil {
		cb(width, height)
	}
}

func (e *engine) handleKey(keyCode uint32, down bool) {
	if down {
		switch keyCode {
		case common.KeyEsc:
			e.Quit()
			return
		case common.KeyF3:
			if e.ProfilerEnabled() {
				e.DisableProfiler()
			} else {
				e.EnableProfiler()
			}
			return
		case common.KeyP:
			e.SetPaused(!e.Paused())
			return
		}
	}
	e.callbackMu.RLock()
	cb := e.keyCallback
	e.callbackMu.RUnlock()
	if cb != nil {
		cb(keyCode, down)
	}
}

// watchConfig forwards config file changes to the render goroutine as coalescable reload jobs.
func (e *engine) watchConfig(ctx context.Context) {
	err := config.Watch(ctx, e.configPath, func(cfg *config.Config, err error) {
		if err != nil {
			e.log().Warn("config reload rejected", "path", e.configPath, "error", err)
			return
		}
		e.Post(job.NewCoalescableJob(job.JobKindConfigReload, func() {
			e.applyConfig(cfg)
		}))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		e.log().Warn("config watch stopped", "path", e.configPath, "error", err)
	}
}

// applyConfig applies the settings that can change while running.
// Window size, MSAA and thread count need a restart.
func (e *engine) applyConfig(cfg *config.Config) {
	e.SetTickRate(cfg.Engine.TickRate)
	e.SetRenderFrameLimit(cfg.Engine.RenderFrameLimit)
	if cfg.Engine.Profiling {
		e.EnableProfiler()
	} else {
		e.DisableProfiler()
	}
	if e.renderer != nil {
		e.renderer.SetPresentMode(cfg.PresentMode())
		if e.window != nil {
			e.applyResize(e.window.Width(), e.window.Height())
		}
	}
	e.log().Info("config reloaded", "path", e.configPath, "tick_rate", cfg.Engine.TickRate)
}

func (e *engine) EnableProfiler() {
	if !e.profilingEnabled.Swap(true) {
		e.profiler.Reset()
	}
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) ProfilerEnabled() bool {
	return e.profilingEnabled.Load()
}

func (e *engine) SetPaused(paused bool) {
	e.paused.Store(paused)
}

func (e *engine) Paused() bool {
	return e.paused.Load()
}

func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)
	e.tickRate.Store(int64(newRate))

	// Replace any pending update the loop has not picked up yet.
	for {
		select {
		case e.tickRateChannel <- newRate:
			return
		default:
		}
		select {
		case <-e.tickRateChannel:
		default:
		}
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.callbackMu.Lock()
	e.tickCallback = callback
	e.callbackMu.Unlock()
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.callbackMu.Lock()
	e.renderCallback = callback
	e.callbackMu.Unlock()
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.callbackMu.Lock()
	e.resizeCallback = callback
	e.callbackMu.Unlock()
}

func (e *engine) SetKeyCallback(callback func(keyCode uint32, down bool)) {
	e.callbackMu.Lock()
	e.keyCallback = callback
	e.callbackMu.Unlock()
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.frameLimit.Store(int64(frameLimit(fps)))
}

func (e *engine) AddScene(key int, s scene.Scene) {
	if s == nil {
		return
	}
	e.scenesMu.Lock()
	e.scenes[key] = s
	e.scenesMu.Unlock()
}

func (e *engine) RemoveScene(key int) {
	e.scenesMu.Lock()
	delete(e.scenes, key)
	e.scenesMu.Unlock()
}

func (e *engine) Scene(key int) scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.scenesMu.RLock()
	defer e.scenesMu.RUnlock()
	return maps.Clone(e.scenes)
}

func (e *engine) Post(j job.Job) {
	e.jobs.Push(j)
}

func (e *engine) Stats() Stats {
	return Stats{
		Ticks:            e.ticks.Load(),
		InlineTicks:      e.inlineTicks.Load(),
		SkippedTicks:     e.skippedTicks.Load(),
		PausedTicks:      e.pausedTicks.Load(),
		PublishedFrames:  e.frames.Frame(),
		RenderFrames:     e.renderFrames.Load(),
		JobsRun:          e.jobsRun.Load(),
		FrontCommands:    e.frames.FrontLen(),
		FailedCommands:   e.failedCommands.Load(),
		PasslessCommands: e.passlessCommands.Load(),
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
