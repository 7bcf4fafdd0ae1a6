package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the active configuration. Readers always see a complete,
// validated value; reloads swap it atomically.
type Store struct {
	path    string
	current atomic.Pointer[Config]
	log     *slog.Logger

	mu       sync.Mutex
	onChange []func(*Config)
}

// NewStore loads path and returns a store serving it.
func NewStore(path string, log *slog.Logger) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path, log: log}
	s.current.Store(cfg)
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Current returns the active configuration. Callers must not modify it.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Update applies fn to a copy of the active configuration, validates it,
// persists it and makes it active.
func (s *Store) Update(fn func(*Config)) error {
	next := *s.Current()
	next.Farming.Slots = slices.Clone(next.Farming.Slots)
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := Save(s.path, &next); err != nil {
		return err
	}
	s.swap(&next)
	return nil
}

// OnChange registers fn to run after every successful reload or update.
func (s *Store) OnChange(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Reload rereads the file. On error the active configuration is kept.
func (s *Store) Reload() error {
	cfg, err := Load(s.path)
	if err != nil {
		return err
	}
	s.swap(cfg)
	return nil
}

func (s *Store) swap(cfg *Config) {
	s.current.Store(cfg)
	s.mu.Lock()
	callbacks := slices.Clone(s.onChange)
	s.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Watcher reloads a Store whenever its file changes on disk.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
	debounce time.Duration
}

// Watch starts watching the directory of the store's file. Editors often
// replace files instead of writing them, so the directory is watched rather
// than the file.
func Watch(store *Store) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch: %w", err)
	}
	dir := filepath.Dir(store.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", dir, err)
	}

	watcher := &Watcher{
		store:    store,
		watcher:  w,
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
		debounce: 100 * time.Millisecond,
	}
	go watcher.run()
	return watcher, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	target := filepath.Clean(w.store.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.store.Reload(); err != nil {
				w.store.log.Warn("config reload failed, keeping previous configuration", "path", target, "err", err)
				continue
			}
			w.store.log.Info("config reloaded", "path", target)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.store.log.Warn("config watcher error", "err", err)
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
