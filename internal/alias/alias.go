// Package alias maps numeric sender ids to display names. The mapping
// persists in its own JSON file and reloads when that file is edited
// outside the app.
package alias

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"

	"panechat/internal/errs"
	"panechat/internal/logger"
)

// Store holds the alias table. Safe for concurrent use; the watcher
// goroutine reloads it in place.
type Store struct {
	mu      sync.RWMutex
	path    string
	aliases map[int64]string
	watcher *fsnotify.Watcher
}

// Load reads the alias file, returning an empty store if it does not
// exist yet. A malformed file is an IO error, not fatal to the caller.
func Load(path string) (*Store, error) {
	const op = errs.Op("alias.Load")
	s := &Store{path: path, aliases: make(map[int64]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errs.E(op, errs.IO, err)
	}
	if err := s.decode(data); err != nil {
		return nil, errs.E(op, errs.IO, err)
	}
	return s, nil
}

// JSON object keys are strings, so the table serializes as
// {"1001": "Grace"}.
func (s *Store) decode(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m := make(map[int64]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		m[id] = v
	}
	s.mu.Lock()
	s.aliases = m
	s.mu.Unlock()
	return nil
}

// Get returns the alias for a sender id, or fallback when none is set.
func (s *Store) Get(id int64, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name, ok := s.aliases[id]; ok {
		return name
	}
	return fallback
}

// Set records an alias and saves the file.
func (s *Store) Set(id int64, name string) error {
	s.mu.Lock()
	s.aliases[id] = name
	s.mu.Unlock()
	return s.save()
}

// Remove deletes an alias and saves the file. Removing an id with no
// alias is NotFound.
func (s *Store) Remove(id int64) error {
	s.mu.Lock()
	if _, ok := s.aliases[id]; !ok {
		s.mu.Unlock()
		return errs.E(errs.Op("alias.Remove"), errs.NotFound, "no alias for "+strconv.FormatInt(id, 10))
	}
	delete(s.aliases, id)
	s.mu.Unlock()
	return s.save()
}

// Len returns the number of aliases.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aliases)
}

func (s *Store) save() error {
	const op = errs.Op("alias.save")
	s.mu.RLock()
	raw := make(map[string]string, len(s.aliases))
	for id, name := range s.aliases {
		raw[strconv.FormatInt(id, 10)] = name
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errs.E(op, errs.IO, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errs.E(op, errs.IO, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errs.E(op, errs.IO, err)
	}
	return nil
}

// Watch starts reloading the store whenever its file changes on disk.
// Each successful reload is reported on the returned channel so the UI
// can redraw. Stop with Close.
func (s *Store) Watch() (<-chan struct{}, error) {
	const op = errs.Op("alias.Watch")
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.E(op, errs.IO, err)
	}
	// Watch the directory: editors replace files rather than write in
	// place, which drops a watch on the file itself.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.Close()
		return nil, errs.E(op, errs.IO, err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, errs.E(op, errs.IO, err)
	}
	s.watcher = w

	reloaded := make(chan struct{}, 1)
	go func() {
		defer close(reloaded)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != s.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := os.ReadFile(s.path)
				if err != nil {
					continue
				}
				if err := s.decode(data); err != nil {
					logger.Warn("alias reload failed", "err", err)
					continue
				}
				select {
				case reloaded <- struct{}{}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("alias watcher", "err", err)
			}
		}
	}()
	return reloaded, nil
}

// Close stops the watcher, if running.
func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
