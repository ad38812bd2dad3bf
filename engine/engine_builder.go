package engine

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/Carmen-Shannon/oxy-frame/engine/thread_pool"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithTickRate sets the update tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate.Store(int64(tickInterval(fps)))
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameLimit.Store(int64(frameLimit(fps)))
	}
}

// WithWindow sets the window the engine runs the message loop of and presents to.
//
// Parameters:
//   - w: an open Window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer published frames are replayed into.
// The caller keeps ownership and releases it after Run returns.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithThreadPool sets the pool update jobs run on. The caller keeps ownership.
// Without it the engine creates and closes its own pool.
//
// Parameters:
//   - p: the thread pool
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithThreadPool(p thread_pool.ThreadPool) EngineBuilderOption {
	return func(e *engine) {
		e.pool = p
	}
}

// WithThreadCount sets the size of the engine-owned thread pool. Ignored with WithThreadPool.
//
// Parameters:
//   - n: thread count (<= 0 means one per CPU)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithThreadCount(n int) EngineBuilderOption {
	return func(e *engine) {
		e.threads = n
	}
}

// WithScene registers a scene at the given z-index key during engine construction.
//
// Parameters:
//   - key: the z-index (lower first)
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(key int, s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		if s != nil {
			e.scenes[key] = s
		}
	}
}

// WithLogger sets the logger for the engine and the components it creates.
//
// Parameters:
//   - l: the logger (nil uses the package logger)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(l *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = l
	}
}

// WithConfig applies the engine section of a loaded configuration.
//
// Parameters:
//   - cfg: a validated configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg *config.Config) EngineBuilderOption {
	return func(e *engine) {
		if cfg == nil {
			return
		}
		WithTickRate(cfg.Engine.TickRate)(e)
		WithRenderFrameLimit(cfg.Engine.RenderFrameLimit)(e)
		WithThreadCount(cfg.Engine.ThreadCount)(e)
		WithProfiling(cfg.Engine.Profiling)(e)
	}
}

// WithConfigFile watches path while the engine runs and applies changes on the render goroutine.
// Tick rate, frame limit, profiling and present mode take effect live.
//
// Parameters:
//   - path: the TOML file to watch
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfigFile(path string) EngineBuilderOption {
	return func(e *engine) {
		e.configPath = path
	}
}
