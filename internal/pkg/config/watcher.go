package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"oap-netconfig/internal/pkg/identity"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// Watcher reloads a configuration file when it changes and publishes a new
// immutable provider for every valid revision. Invalid revisions are logged
// and the last good provider stays current.
type Watcher struct {
	path     string
	current  atomic.Pointer[identity.Provider]
	watcher  *fsnotify.Watcher
	log      logr.Logger
	onChange func(*identity.Provider)
}

// NewWatcher loads path once and starts watching its directory. onChange, if
// non-nil, is called from Run for every newly published provider.
func NewWatcher(path string, log logr.Logger, onChange func(*identity.Provider)) (*Watcher, error) {
	p, err := loadProvider(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory and filter by name.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		log:      log,
		onChange: onChange,
	}
	w.current.Store(p)
	return w, nil
}

// Current returns the latest valid provider.
func (w *Watcher) Current() *identity.Provider {
	return w.current.Load()
}

// Run processes file events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "error watching config file", "path", w.path)
		}
	}
}

func (w *Watcher) reload() {
	p, err := loadProvider(w.path)
	if err != nil {
		w.log.Error(err, "ignoring invalid config revision", "path", w.path)
		return
	}
	if p.Equal(w.Current()) {
		w.log.V(1).Info("config rewritten without identity change", "path", w.path)
		return
	}

	w.current.Store(p)
	w.log.Info("config reloaded", "path", w.path, "server", p.Address(), "mac", p.HardwareAddr().String())
	if w.onChange != nil {
		w.onChange(p)
	}
}

func loadProvider(path string) (*identity.Provider, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg.Provider()
}
