package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ConfigWatcher reloads the config file when it changes and hands the
// result to the compositor. Settings that size the process (listen
// address, display, output, frame interval) keep their startup values.
type ConfigWatcher struct {
	path    string
	loop    *Loop
	verbose bool
}

// NewConfigWatcher watches path on behalf of loop.
func NewConfigWatcher(path string, loop *Loop, verbose bool) *ConfigWatcher {
	return &ConfigWatcher{path: path, loop: loop, verbose: verbose}
}

func (cw *ConfigWatcher) String() string { return "config watcher" }

// Serve implements suture.Service.
func (cw *ConfigWatcher) Serve(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}
	defer w.Close()

	// Editors replace files instead of writing them, so watch the
	// directory.
	if err := w.Add(filepath.Dir(cw.path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", cw.path)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			logrus.WithError(err).Warnln("config watcher")
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if filepath.Clean(ev.Name) != filepath.Clean(cw.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			cw.reload(ctx)
		}
	}
}

func (cw *ConfigWatcher) reload(ctx context.Context) {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		logrus.WithError(err).Warnln("keeping previous configuration")
		return
	}
	setupLogging(cfg.LogLevel, cw.verbose)
	err = cw.loop.Post(ctx, func(c *Compositor) {
		next := *cfg
		next.Listen = c.cfg.Listen
		next.Display = c.cfg.Display
		next.Output = c.cfg.Output
		next.FrameInterval = c.cfg.FrameInterval
		c.Reconfigure(&next)
	})
	if err != nil {
		logrus.WithError(err).Warnln("configuration not applied")
	}
}
