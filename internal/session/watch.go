package session

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// ErrNotWatchable is returned by Watch when the store is not file based.
var ErrNotWatchable = errors.New("session store cannot be watched")

// Watch follows the session file so that signing in or out from another
// process updates this manager. It returns once the watch is set up; the
// watch ends when ctx is cancelled.
func (m *Manager) Watch(ctx context.Context) error {
	fs, ok := m.store.(*FileStore)
	if !ok {
		return ErrNotWatchable
	}
	path := filepath.Clean(fs.Path())

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// The file is replaced by rename, so watch its directory.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				m.logger.Debug("session file changed", "op", event.Op.String())
				m.reload(ctx)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				m.logger.Warn("session watcher error", "error", err)
			}
		}
	}()

	m.logger.Debug("watching session file", "path", path)
	return nil
}

// reload adopts the session on disk if it differs from the current one.
func (m *Manager) reload(ctx context.Context) {
	saved, err := m.store.Load()
	if err != nil {
		// Partially written files show up as parse errors; the final write follows.
		m.logger.Debug("session file not readable yet", "error", err)
		return
	}
	if sameSession(m.Current(), saved) {
		return
	}
	if saved == nil {
		m.logger.Info("signed out elsewhere")
		m.set(nil)
		return
	}

	resumed, err := m.svc.Resume(ctx, *saved)
	if err != nil {
		m.logger.Warn("ignoring external session", "email", saved.Email, "error", err)
		return
	}
	m.logger.Info("signed in elsewhere", "email", resumed.Email)
	m.set(&resumed)
}
