package manifest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch applies the manifest at path once, then again every time it is
// written, until ctx is done. The parent directory is watched so editors
// that replace the file are noticed. onLoad, when set, receives the outcome
// of every load.
func (l *Loader) Watch(ctx context.Context, path string, onLoad func(*Result, error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	load := func() {
		result, err := l.LoadFile(ctx, abs)
		if err != nil {
			l.logger.Error("manifest load failed", zap.String("path", abs), zap.Error(err))
		}
		if onLoad != nil {
			onLoad(result, err)
		}
	}

	l.logger.Info("watching manifest", zap.String("path", abs))
	load()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				l.logger.Info("manifest modified, reloading", zap.String("op", event.Op.String()))
				load()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Warn("watcher error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}
