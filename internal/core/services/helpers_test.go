package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage/memory"
	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/catalog"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

var errDisk = errors.New("disk full")

func newTestRegistry() *calculators.Registry {
	return calculators.NewDefaultRegistry(calculators.DefaultOptions())
}

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Builtin(newTestRegistry())
	require.NoError(t, err)
	return c
}

// flakyStore wraps a memory store and fails writes while failSaves is set.
type flakyStore struct {
	*memory.DraftStore
	mu        sync.Mutex
	failSaves bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{DraftStore: memory.NewDraftStore()}
}

func (s *flakyStore) setFailing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSaves = v
}

func (s *flakyStore) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	fail := s.failSaves
	s.mu.Unlock()
	if fail {
		return fmt.Errorf("%w: %v", domain.ErrStorage, errDisk)
	}
	return s.DraftStore.Save(ctx, key, data)
}

// fakePhotos answers photo reads from a table. A non-nil gate blocks the
// read of that path until the channel is closed.
type fakePhotos struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
	fail    map[string]bool
}

func newFakePhotos() *fakePhotos {
	return &fakePhotos{
		gates:   make(map[string]chan struct{}),
		started: make(chan string, 16),
		fail:    make(map[string]bool),
	}
}

func (p *fakePhotos) gate(path string) chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan struct{})
	p.gates[path] = ch
	return ch
}

func (p *fakePhotos) Read(ctx context.Context, file domain.FileHandle) (domain.PhotoRef, error) {
	p.started <- file.Path
	p.mu.Lock()
	ch := p.gates[file.Path]
	fail := p.fail[file.Path]
	p.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return domain.PhotoRef{}, ctx.Err()
		}
	}
	if fail {
		return domain.PhotoRef{}, fmt.Errorf("%w: not an image", domain.ErrInvalidInput)
	}
	return domain.PhotoRef{DataURL: "data:image/png;base64," + file.Path, Name: file.Path}, nil
}
