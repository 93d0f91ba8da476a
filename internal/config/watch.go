package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the settings file when something else edits it and hands
// the result to a callback. The daemon's own debounced writes come back
// through here too; callers are expected to ignore no-op updates.
type Watcher struct {
	store *Store
	fsw   *fsnotify.Watcher
}

// Watch starts watching the store's directory. A watch that cannot be
// established is a degraded mode, not a failure; the returned Watcher is
// nil and settings apply at next restart only.
func (s *Store) Watch(onChange func(Settings)) *Watcher {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config: could not create settings watcher", "err", err)
		return nil
	}
	if err := fsw.Add(filepath.Dir(s.path)); err != nil {
		slog.Warn("config: could not watch settings dir",
			"dir", filepath.Dir(s.path), "err", err)
		fsw.Close()
		return nil
	}

	w := &Watcher{store: s, fsw: fsw}
	go w.loop(onChange)
	return w
}

// Close stops the watcher.
func (w *Watcher) Close() {
	if w != nil && w.fsw != nil {
		w.fsw.Close()
	}
}

func (w *Watcher) loop(onChange func(Settings)) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Name != w.store.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			set, err := w.store.Load()
			if err != nil {
				slog.Warn("config: failed to reload settings", "err", err)
				continue
			}
			onChange(set)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("config: settings watcher error", "err", err)
		}
	}
}
