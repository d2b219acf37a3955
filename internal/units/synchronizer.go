package units

import (
	"github.com/google/uuid"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
)

// Snapshot is what the last synchronisation produced. A document whose
// config and unit count still match it needs no resync.
type Snapshot struct {
	Config domain.UnitConfig
	Units  int
}

// SnapshotOf captures the sync-relevant state of doc.
// ok is false for documents without a unit config.
func SnapshotOf(doc domain.Document) (Snapshot, bool) {
	if doc.Config == nil {
		return Snapshot{}, false
	}
	return Snapshot{Config: *doc.Config, Units: len(doc.Units)}, true
}

// Synchronizer keeps a document's units in line with its config and
// remembers the last result so unchanged documents are left alone.
type Synchronizer struct {
	newID func() string
	last  *Snapshot
}

// NewSynchronizer creates a synchronizer. A nil newID uses random UUIDs.
func NewSynchronizer(newID func() string) *Synchronizer {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Synchronizer{newID: newID}
}

// Sync normalises cfg and reconciles previous with the identities it
// describes.
func (s *Synchronizer) Sync(schema *domain.Schema, cfg domain.UnitConfig, previous []domain.Unit) (domain.UnitConfig, []domain.Unit) {
	cfg = document.NormaliseConfig(cfg.Raw())
	var tpl *domain.UnitTemplate
	if schema != nil {
		tpl = schema.Unit
	}
	return cfg, Reconcile(tpl, Identities(cfg), previous, s.newID)
}

// NeedsSync reports whether doc diverges from the last synchronisation.
func (s *Synchronizer) NeedsSync(doc domain.Document) bool {
	snap, ok := SnapshotOf(doc)
	if !ok {
		return false
	}
	return s.last == nil || *s.last != snap
}

// Apply resynchronises doc in place when its config or unit count changed
// since the last run. Returns true when units were recomputed.
func (s *Synchronizer) Apply(schema *domain.Schema, doc *domain.Document) bool {
	if doc == nil || schema == nil || schema.Unit == nil || !s.NeedsSync(*doc) {
		return false
	}
	cfg, next := s.Sync(schema, *doc.Config, doc.Units)
	doc.Config = &cfg
	doc.Units = next
	s.last = &Snapshot{Config: cfg, Units: len(next)}
	return true
}

// Reset forgets the last snapshot so the next Apply always runs.
func (s *Synchronizer) Reset() {
	s.last = nil
}

// Sync reconciles with random unit ids.
func Sync(schema *domain.Schema, cfg domain.UnitConfig, previous []domain.Unit) (domain.UnitConfig, []domain.Unit) {
	return NewSynchronizer(nil).Sync(schema, cfg, previous)
}
