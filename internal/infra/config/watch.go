package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"b2bizzio/internal/domain"
	"b2bizzio/internal/infra/telemetry"
)

const reloadDebounce = 100 * time.Millisecond

// WatchLogLevel applies logLevel edits of the config file to level until ctx
// ends. Only the log level is hot-reloaded; an edit that fails to load is
// logged and leaves the current level in place. The returned channel closes
// once the watcher has been released.
func (l *Loader) WatchLogLevel(ctx context.Context, path string, level zap.AtomicLevel) <-chan struct{} {
	done := make(chan struct{})
	if path == "" {
		close(done)
		return done
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		l.logger.Warn("config watch disabled", zap.String("path", path), zap.Error(err))
		close(done)
		return done
	}
	// Editors replace files on save, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		l.logger.Warn("config watch disabled", zap.String("path", path), zap.Error(err))
		_ = watcher.Close()
		close(done)
		return done
	}
	l.logger.Debug("watching config for log level changes", zap.String("path", path))

	go func() {
		defer close(done)
		defer watcher.Close()
		l.runWatcher(ctx, watcher, path, level)
	}()
	return done
}

func (l *Loader) runWatcher(ctx context.Context, watcher *fsnotify.Watcher, path string, level zap.AtomicLevel) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("config watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !shouldReload(event, path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
		case <-timerChan(timer):
			timer = nil
			l.reloadLogLevel(ctx, path, level)
		}
	}
}

func shouldReload(event fsnotify.Event, path string) bool {
	if event.Name == "" || filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func timerChan(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}

func (l *Loader) reloadLogLevel(ctx context.Context, path string, level zap.AtomicLevel) {
	if ctx.Err() != nil {
		return
	}
	cfg, err := l.Load(ctx, path, nil)
	if err != nil {
		l.logger.Warn("config reload failed",
			telemetry.EventField(telemetry.EventConfigReload),
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	l.setLevel(cfg, level)
}

func (l *Loader) setLevel(cfg domain.Config, level zap.AtomicLevel) {
	next, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return
	}
	if level.Level() == next {
		return
	}
	level.SetLevel(next)
	l.logger.Info("log level changed",
		telemetry.EventField(telemetry.EventConfigReload),
		zap.String("level", next.String()),
	)
}
