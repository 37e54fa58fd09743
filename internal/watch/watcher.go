// Package watch reloads the configuration file when it changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fetchlist/internal/config"
	"fetchlist/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc receives every successfully loaded configuration.
type ReloadFunc func(*config.Config)

type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before reloading.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithErrorHandler is called when the changed file fails to load.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher monitors one config file using fsnotify. The parent directory is
// watched so that editors replacing the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload ReloadFunc
	onError  func(error)

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	stopChan chan struct{}
	done     chan struct{}

	mutex   sync.RWMutex
	running bool
	closed  bool
}

// New creates a watcher for the config file at path
func New(path string, onReload ReloadFunc, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:      abs,
		debounce:  DefaultDebounce,
		onReload:  onReload,
		fsWatcher: fsWatcher,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching. The config directory must exist.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.closed {
		return fmt.Errorf("watcher closed")
	}

	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		// Stop is a no-op for a watcher that never ran
		w.close()
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})
	go w.loop(w.stopChan, w.done)

	log.LogWithFields(log.F("file", w.path)).Info("Watching config file")
	return nil
}

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			log.LogWithFields(log.F("file", event.Name), log.F("op", event.Op.String())).Debug("Config file changed")
			fire = time.After(w.debounce)

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := config.LoadConfigFile(w.path)
	if err != nil {
		log.LogWithError(err).Warn("Ignoring config change")
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	log.LogWithFields(log.F("file", w.path), log.F("base_url", cfg.Endpoint.BaseURL)).Info("Config reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Stop halts watching and waits for the event loop to exit
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	done := w.done
	w.mutex.Unlock()

	<-done
	w.mutex.Lock()
	w.close()
	w.mutex.Unlock()
}

// close releases the fsnotify watcher. Callers hold w.mutex.
func (w *Watcher) close() {
	if w.closed {
		return
	}
	w.closed = true
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
