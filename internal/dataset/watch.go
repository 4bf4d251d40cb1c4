package dataset

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch invalidates path in c whenever the file is written, replaced or
// removed. It watches the parent directory because editors often replace the
// file instead of writing it in place. Watch blocks until ctx is done.
func Watch(ctx context.Context, c *Cache, path string, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	const mask = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op&mask == 0 {
				continue
			}
			logger.Info("data file changed, dropping cached snapshot",
				zap.String("path", path), zap.String("op", event.Op.String()))
			c.Invalidate(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("data file watcher error", zap.Error(err))
		}
	}
}
