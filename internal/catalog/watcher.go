package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.SchemaCatalog = (*Watcher)(nil)

// Reload reports one reload attempt. On failure Catalog is the one still
// being served.
type Reload struct {
	Catalog *Catalog
	Err     error
}

// Watcher serves a catalog and reloads it when schema files in the
// override directory change. A failed reload keeps the previous catalog.
type Watcher struct {
	dir     string
	reg     *calculators.Registry
	current atomic.Pointer[Catalog]
}

// NewWatcher loads the catalog from dir and starts serving it.
func NewWatcher(dir string, reg *calculators.Registry) (*Watcher, error) {
	c, err := Load(dir, reg)
	if err != nil {
		return nil, err
	}
	w := &Watcher{dir: dir, reg: reg}
	w.current.Store(c)
	return w, nil
}

// Current returns the catalog being served.
func (w *Watcher) Current() *Catalog {
	return w.current.Load()
}

// Get returns a schema from the current catalog.
func (w *Watcher) Get(key string) (*domain.Schema, bool) {
	return w.Current().Get(key)
}

// Keys returns the keys of the current catalog.
func (w *Watcher) Keys() []string {
	return w.Current().Keys()
}

// Reload loads the directory again and swaps the catalog on success.
func (w *Watcher) Reload() Reload {
	c, err := Load(w.dir, w.reg)
	if err != nil {
		return Reload{Catalog: w.Current(), Err: err}
	}
	w.current.Store(c)
	return Reload{Catalog: c}
}

// Watch reloads on every schema file change until ctx is cancelled.
// Each reload attempt is reported on the returned channel, which is closed
// when watching stops.
func (w *Watcher) Watch(ctx context.Context) (<-chan Reload, error) {
	if w.dir == "" {
		return nil, fmt.Errorf("%w: no schema directory to watch", domain.ErrInvalidInput)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}

	reloads := make(chan Reload, 1)
	go func() {
		defer close(reloads)
		defer fsw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				select {
				case reloads <- w.Reload():
				case <-ctx.Done():
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				select {
				case reloads <- Reload{Catalog: w.Current(), Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return reloads, nil
}

// relevant reports whether ev touches a schema file.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(ev.Name)
	return !strings.HasPrefix(name, ".") && isSchemaFile(name)
}
