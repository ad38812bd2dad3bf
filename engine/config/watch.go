package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written or created (including renamed into place) and passes the
// result to onChange. Decode and validation failures are delivered too, with a nil Config,
// so a broken edit never replaces a good configuration silently.
//
// The containing directory is watched rather than the file so editors that save by
// rename keep being observed. Watch blocks until ctx is done.
//
// Parameters:
//   - ctx: stops the watch when cancelled
//   - path: the config file
//   - onChange: called from the watch goroutine for each reload
//
// Returns:
//   - error: an error if the watcher could not be set up, otherwise ctx.Err()
func Watch(ctx context.Context, path string, onChange func(*Config, error)) error {
	if onChange == nil {
		panic("config: nil onChange")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(abs)
			onChange(cfg, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, fmt.Errorf("config: watch: %w", err))
		}
	}
}
