package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

// Ensure DraftStore implements the interface.
var _ driven.DraftStore = (*DraftStore)(nil)

// DraftStore is an in-memory implementation of driven.DraftStore.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]domain.Draft
	now    func() time.Time
	saves  int
}

// NewDraftStore creates a new in-memory draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts: make(map[string]domain.Draft),
		now:    time.Now,
	}
}

// Save stores or replaces the draft under key.
func (s *DraftStore) Save(_ context.Context, key string, data []byte) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = domain.Draft{
		Key:     key,
		SavedAt: s.now(),
		Data:    append([]byte(nil), data...),
	}
	s.saves++
	return nil
}

// Load returns the draft under key, or nil when none is stored.
func (s *DraftStore) Load(_ context.Context, key string) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[key]
	if !ok {
		return nil, nil
	}
	d.Data = append([]byte(nil), d.Data...)
	return &d, nil
}

// Clear removes the draft under key. Clearing a missing key succeeds.
func (s *DraftStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}

// List returns the stored keys with the given prefix in lexical order.
func (s *DraftStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.drafts))
	for k := range s.drafts {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Saves returns how many writes reached the store.
func (s *DraftStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close is a no-op.
func (s *DraftStore) Close() error {
	return nil
}
