package config

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes on disk and fans the
// new config out to subscribers.
type Watcher struct {
	cfg  *Config
	fsw  *fsnotify.Watcher
	done chan struct{}

	mu   sync.Mutex
	subs []func(*Config)
}

// NewWatcher creates a watcher for the given config. Call Start to
// begin watching.
func NewWatcher(cfg *Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		cfg:  cfg,
		fsw:  fsw,
		done: make(chan struct{}),
	}, nil
}

// OnReload registers a callback invoked with the config after each
// successful reload.
func (w *Watcher) OnReload(fn func(*Config)) {
	w.mu.Lock()
	w.subs = append(w.subs, fn)
	w.mu.Unlock()
}

// Start begins watching the config file. A config loaded from defaults
// has no path and nothing is watched.
func (w *Watcher) Start() error {
	path := w.cfg.Path()
	if path == "" {
		return nil
	}
	if err := w.fsw.Add(path); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()
}

func (w *Watcher) loop() {
	var pending *time.Timer
	schedule := func(fn func()) {
		if pending != nil {
			pending.Stop()
		}
		pending = time.AfterFunc(reloadDebounce, fn)
	}

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create):
				schedule(w.reload)
			case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
				// editors replace files by rename; re-arm the watch
				schedule(func() {
					if err := w.fsw.Add(w.cfg.Path()); err != nil {
						log.Error("config file gone", "path", w.cfg.Path(), "err", err)
						return
					}
					w.reload()
				})
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error("config watcher error", "err", err)

		case <-w.done:
			if pending != nil {
				pending.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	if err := w.cfg.Reload(); err != nil {
		log.Error("failed to reload config", "err", err)
		return
	}
	log.Info("config reloaded", "path", w.cfg.Path())

	w.mu.Lock()
	subs := make([]func(*Config), len(w.subs))
	copy(subs, w.subs)
	w.mu.Unlock()

	for _, fn := range subs {
		fn(w.cfg)
	}
}
