package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[engine]
tick_rate = 120
render_frame_limit = 144
thread_count = 2
profiling = true

[window]
title = "demo"

[renderer]
present_mode = "uncapped"
msaa = 1

[log]
level = "debug"
`

func TestParseFillsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 120.0, cfg.Engine.TickRate)
	assert.Equal(t, 144.0, cfg.Engine.RenderFrameLimit)
	assert.Equal(t, 2, cfg.Engine.ThreadCount)
	assert.True(t, cfg.Engine.Profiling)
	assert.False(t, cfg.Engine.Headless)
	assert.Equal(t, "demo", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width, "default kept")
	assert.Equal(t, renderer.PresentModeUncapped, cfg.PresentMode())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.True(t, cfg.Window.Resizable, "default kept")
	assert.Len(t, cfg.WindowOptions(), 4)
	assert.Len(t, cfg.RendererOptions(), 4)
}

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		doc     string
		invalid bool
	}{
		"syntax":        {doc: "[engine\ntick_rate = 1"},
		"unknown key":   {doc: "[engine]\nspeed = 2", invalid: true},
		"zero tick":     {doc: "[engine]\ntick_rate = 0", invalid: true},
		"negative cap":  {doc: "[engine]\nrender_frame_limit = -1", invalid: true},
		"threads":       {doc: "[engine]\nthread_count = -2", invalid: true},
		"window":        {doc: "[window]\nwidth = 0", invalid: true},
		"present mode":  {doc: "[renderer]\npresent_mode = \"mailbox\"", invalid: true},
		"msaa":          {doc: "[renderer]\nmsaa = 2", invalid: true},
		"min size":      {doc: "[window]\nmin_size = [-1, 0]", invalid: true},
		"max below min": {doc: "[window]\nmin_size = [800, 600]\nmax_size = [640, 0]", invalid: true},
		"log level":     {doc: "[log]\nlevel = \"loud\"", invalid: true},
		"wrong type":    {doc: "[engine]\ntick_rate = \"fast\""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestValidateJoinsProblems(t *testing.T) {
	cfg := Default()
	cfg.Engine.TickRate = 0
	cfg.Renderer.MSAA = 3
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "tick_rate")
	assert.Contains(t, err.Error(), "msaa")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.Engine.TickRate)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchDeliversReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		cfg *Config
		err error
	}
	results := make(chan result, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config, err error) {
			select {
			case results <- result{cfg, err}:
			default:
			}
		})
	}()

	// Unrelated files in the same directory are ignored; keep rewriting until
	// the watcher is registered and sees the change.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644))
	var got result
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("[engine]\ntick_rate = 30\n"), 0o644)
		for {
			select {
			case got = <-results:
				if got.err == nil && got.cfg.Engine.TickRate == 30 {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
