package views

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// Watch purges the cache whenever a file in the dir tree changes, so edited component files
// are picked up without restarting the server. Bursts of changes only purge the cache once,
// after delay has passed without new changes.
//
// Watch blocks until ctx is done or the watcher fails.
func Watch(
	ctx context.Context,
	dir string,
	cache *CachedLoader,
	delay time.Duration,
	logger *slog.Logger,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("cannot add directory %q to watcher: %w", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot walk view directory: %w", err)
	}
	logger.Debug("Watching views for changes", "dir", dir)

	debounced := debounce.New(delay)
	purge := func() {
		cache.Purge()
		logger.Info("Views changed, component cache purged", "dir", dir)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("Cannot watch new view directory", "dir", event.Name, "error", err)
					}
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				debounced(purge)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("View watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
