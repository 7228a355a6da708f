package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the document at path whenever it changes on disk and hands each valid result to onChange.
// Load failures, including validation errors, go to onError and the previous configuration stays in effect.
// The parent directory is watched so that editors replacing the file by rename are picked up.
// Watch blocks until ctx is cancelled or the watcher fails.
//
// Parameters:
//   - ctx: cancels the watch
//   - path: the document path
//   - onChange: called with every successfully reloaded configuration
//   - onError: called with reload and watcher errors; may be nil
//
// Returns:
//   - error: nil after cancellation, or the error that stopped the watcher
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := Load(target)
			if err != nil {
				report(err)
				continue
			}
			if onChange != nil {
				onChange(cfg)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(fmt.Errorf("config watcher: %w", err))
		}
	}
}
