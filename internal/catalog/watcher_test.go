package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, registry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloads, err := w.Watch(ctx)
	require.NoError(t, err)

	body := "key: boiler\nlabel: Boiler\nphotos:\n  - {id: burner, label: Burner}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "boiler.yaml"), []byte(body), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-reloads:
			if _, ok := r.Catalog.Get("boiler"); ok {
				require.NoError(t, r.Err)
				_, ok := w.Get("boiler")
				assert.True(t, ok)
				return
			}
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestWatcher_FailedReloadKeepsCatalog(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, registry())
	require.NoError(t, err)
	before := w.Current()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("key: [\n"), 0o600))
	r := w.Reload()

	assert.ErrorIs(t, r.Err, domain.ErrInvalidSchema)
	assert.Same(t, before, r.Catalog)
	assert.Same(t, before, w.Current())
	assert.Equal(t, before.Keys(), w.Keys())
}

func TestWatcher_WatchStopsOnCancel(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), registry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	reloads, err := w.Watch(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-reloads:
		for ok {
			_, ok = <-reloads
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatcher_WatchWithoutDirectory(t *testing.T) {
	w, err := NewWatcher("", registry())
	require.NoError(t, err)

	_, err = w.Watch(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"create yaml", fsnotify.Event{Name: "/d/a.yaml", Op: fsnotify.Create}, true},
		{"write yml", fsnotify.Event{Name: "/d/a.yml", Op: fsnotify.Write}, true},
		{"remove", fsnotify.Event{Name: "/d/a.yaml", Op: fsnotify.Remove}, true},
		{"rename", fsnotify.Event{Name: "/d/a.yaml", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: "/d/a.yaml", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Write}, false},
		{"hidden", fsnotify.Event{Name: "/d/.a.yaml.swp", Op: fsnotify.Write}, false},
		{"hidden yaml", fsnotify.Event{Name: "/d/.a.yaml", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}
