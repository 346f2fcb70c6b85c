package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"pipr/internal/system"
)

// Watcher signals changes to a single config file.
type Watcher struct {
	w       *fsnotify.Watcher
	changes chan struct{}
}

// Watch observes the directory holding path, since editors usually replace
// the file rather than writing it in place.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	cw := &Watcher{w: w, changes: make(chan struct{}, 1)}
	name := filepath.Clean(path)
	go func() {
		defer close(cw.changes)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case cw.changes <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				system.Logger.Warn("config watch", "err", err)
			}
		}
	}()
	return cw, nil
}

// Changes yields one value per burst of modifications. It is closed when the
// watcher is closed.
func (cw *Watcher) Changes() <-chan struct{} { return cw.changes }

// Close stops watching.
func (cw *Watcher) Close() error { return cw.w.Close() }
