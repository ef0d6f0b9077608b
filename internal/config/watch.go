package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch reloads encounter tuning from path whenever the file changes and
// passes every valid reload to fn. Invalid files are logged and skipped.
// The parent directory is watched so editors that replace the file by
// rename are picked up. Blocks until ctx is canceled.
func Watch(ctx context.Context, path string, fn func(Encounter)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	// Reload after the file has been quiet for watchDebounce so a
	// truncate-then-write save is read once, complete.
	reload := time.NewTimer(time.Hour)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, err := filepath.Abs(ev.Name); err != nil || name != abs {
				continue
			}
			reload.Reset(watchDebounce)
		case <-reload.C:
			cfg, err := LoadEncounter(abs)
			if err != nil {
				slog.Warn("config reload rejected", "path", abs, "error", err)
				continue
			}
			slog.Info("config reloaded", "path", abs)
			fn(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}
