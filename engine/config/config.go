// Package config loads engine settings from a TOML file and watches it for changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file form of the engine settings.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Log      LogConfig      `toml:"log"`
}

// EngineConfig holds loop timing and threading.
type EngineConfig struct {
	TickRate         float64 `toml:"tick_rate"`
	RenderFrameLimit float64 `toml:"render_frame_limit"` // 0 = uncapped
	ThreadCount      int     `toml:"thread_count"`       // 0 = one per CPU
	Profiling        bool    `toml:"profiling"`
	Headless         bool    `toml:"headless"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
	MinSize   [2]int `toml:"min_size"` // 0 = unlimited
	MaxSize   [2]int `toml:"max_size"` // 0 = unlimited
}

type RendererConfig struct {
	PresentMode string     `toml:"present_mode"`
	MSAA        int        `toml:"msaa"`
	Software    bool       `toml:"software"`
	ClearColor  [4]float64 `toml:"clear_color"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used for any key a file leaves out.
//
// Returns:
//   - *Config: a new default configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{TickRate: 60},
		Window: WindowConfig{Title: "oxy-frame", Width: 1280, Height: 720, Resizable: true},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
			ClearColor:  [4]float64{0.1, 0.1, 0.1, 1},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads and validates the TOML file at path.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Config: the parsed configuration, defaults filled in
//   - error: a read, decode or validation error
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates TOML. Unknown keys are rejected.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - *Config: the parsed configuration, defaults filled in
//   - error: a decode or validation error
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config: %w: %s", ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value is in range.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig, or nil
func (c *Config) Validate() error {
	var errs []error
	if c.Engine.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("engine.tick_rate must be positive, got %v", c.Engine.TickRate))
	}
	if c.Engine.RenderFrameLimit < 0 {
		errs = append(errs, fmt.Errorf("engine.render_frame_limit must not be negative, got %v", c.Engine.RenderFrameLimit))
	}
	if c.Engine.ThreadCount < 0 {
		errs = append(errs, fmt.Errorf("engine.thread_count must not be negative, got %d", c.Engine.ThreadCount))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	for i, axis := range [2]string{"width", "height"} {
		lo, hi := c.Window.MinSize[i], c.Window.MaxSize[i]
		if lo < 0 || hi < 0 {
			errs = append(errs, fmt.Errorf("window %s limits must not be negative, got min %d max %d", axis, lo, hi))
		} else if hi > 0 && hi < lo {
			errs = append(errs, fmt.Errorf("window max %s %d is below min %d", axis, hi, lo))
		}
	}
	if _, ok := renderer.ParsePresentMode(c.Renderer.PresentMode); !ok {
		errs = append(errs, fmt.Errorf("renderer.present_mode %q is not vsync or uncapped", c.Renderer.PresentMode))
	}
	switch renderer.MSAASampleCount(c.Renderer.MSAA) {
	case renderer.MSAAOff, renderer.MSAA4x, renderer.MSAA8x, renderer.MSAA16x:
	default:
		errs = append(errs, fmt.Errorf("renderer.msaa must be 1, 4, 8 or 16, got %d", c.Renderer.MSAA))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level. Call after Validate.
func (c *Config) LogLevel() slog.Level {
	lvl, _ := c.Log.level()
	return lvl
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(l.Level))
	return lvl, err
}

// PresentMode returns the parsed present mode. Call after Validate.
func (c *Config) PresentMode() renderer.PresentMode {
	mode, _ := renderer.ParsePresentMode(c.Renderer.PresentMode)
	return mode
}

// WindowOptions maps the window section onto window builder options.
//
// Returns:
//   - []window.WindowBuilderOption: options for window.NewWindow
func (c *Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithSizeLimits(c.Window.MinSize[0], c.Window.MinSize[1], c.Window.MaxSize[0], c.Window.MaxSize[1]),
		window.WithResizable(c.Window.Resizable),
	}
}

// RendererOptions maps the renderer section onto renderer builder options.
//
// Returns:
//   - []renderer.RendererBuilderOption: options for renderer.NewRenderer
func (c *Config) RendererOptions() []renderer.RendererBuilderOption {
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(c.PresentMode()),
		renderer.WithMSAA(renderer.MSAASampleCount(c.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(c.Renderer.Software),
		renderer.WithClearColor(wgpu.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]}),
	}
}
