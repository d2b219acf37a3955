package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
)

// Ensure DraftService implements the interface.
var _ driving.DraftService = (*DraftService)(nil)

// DraftService persists normalised documents in a draft store.
// Identical consecutive saves of a key are skipped.
type DraftService struct {
	store      driven.DraftStore
	catalog    driven.SchemaCatalog
	normaliser *document.Normaliser

	mu     sync.Mutex
	hashes map[string][sha256.Size]byte
}

// NewDraftService creates a new draft service. A nil normaliser uses the
// default one.
func NewDraftService(
	store driven.DraftStore,
	catalog driven.SchemaCatalog,
	normaliser *document.Normaliser,
) *DraftService {
	if normaliser == nil {
		normaliser = document.New()
	}
	return &DraftService{
		store:      store,
		catalog:    catalog,
		normaliser: normaliser,
		hashes:     make(map[string][sha256.Size]byte),
	}
}

// Load reads the draft under key and normalises it against equipment's
// schema. A missing or unreadable draft yields the schema's empty document.
func (s *DraftService) Load(ctx context.Context, key, equipment string) (domain.Document, domain.LoadResult) {
	schema, err := s.schema(equipment)
	if err != nil {
		return domain.NewDocument(), domain.LoadResult{Result: domain.FailResult(err)}
	}
	empty := s.normaliser.Normalise(schema, nil)

	if key == "" {
		return empty, domain.LoadResult{Result: domain.FailResult(fmt.Errorf("%w: empty draft key", domain.ErrInvalidInput))}
	}

	draft, err := s.store.Load(ctx, key)
	if err != nil {
		logger.Warn("draft %s: load failed: %v", key, err)
		return empty, domain.LoadResult{Result: domain.FailResult(err)}
	}
	if draft == nil {
		logger.Debug("draft %s: nothing stored", key)
		return empty, domain.LoadResult{Result: domain.OKResult()}
	}

	var raw map[string]any
	if err := json.Unmarshal(draft.Data, &raw); err != nil {
		logger.Warn("draft %s: stored data is not a JSON object, starting empty: %v", key, err)
		return empty, domain.LoadResult{Result: domain.OKResult(), Draft: draft}
	}

	return s.normaliser.Normalise(schema, raw), domain.LoadResult{Result: domain.OKResult(), Draft: draft}
}

// Save normalises doc and writes it under key unless the stored content
// is already identical.
func (s *DraftService) Save(ctx context.Context, key, equipment string, doc domain.Document) domain.Result {
	if key == "" {
		return domain.FailResult(fmt.Errorf("%w: empty draft key", domain.ErrInvalidInput))
	}
	schema, err := s.schema(equipment)
	if err != nil {
		return domain.FailResult(err)
	}

	data, err := json.Marshal(s.normaliser.Normalise(schema, doc.Raw()))
	if err != nil {
		return domain.FailResult(fmt.Errorf("encode draft %s: %w", key, err))
	}
	sum := sha256.Sum256(data)

	s.mu.Lock()
	last, seen := s.hashes[key]
	s.mu.Unlock()
	if seen && last == sum {
		logger.Debug("draft %s: unchanged, skipped", key)
		return domain.OKResult()
	}

	if err := s.store.Save(ctx, key, data); err != nil {
		logger.Warn("draft %s: save failed: %v", key, err)
		return domain.FailResult(err)
	}

	s.mu.Lock()
	s.hashes[key] = sum
	s.mu.Unlock()
	logger.Debug("draft %s: saved %d bytes", key, len(data))
	return domain.OKResult()
}

// Clear removes the draft under key.
func (s *DraftService) Clear(ctx context.Context, key string) domain.Result {
	if key == "" {
		return domain.FailResult(fmt.Errorf("%w: empty draft key", domain.ErrInvalidInput))
	}
	if err := s.store.Clear(ctx, key); err != nil {
		logger.Warn("draft %s: clear failed: %v", key, err)
		return domain.FailResult(err)
	}

	s.mu.Lock()
	delete(s.hashes, key)
	s.mu.Unlock()
	logger.Info("draft %s cleared", key)
	return domain.OKResult()
}

// List returns the stored keys starting with prefix.
func (s *DraftService) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return keys, nil
}

func (s *DraftService) schema(equipment string) (*domain.Schema, error) {
	schema, ok := s.catalog.Get(equipment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEquipment, equipment)
	}
	return schema, nil
}
