package services

import (
	"fmt"

	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/keys"
	"github.com/enplussmartenergy/erp-sub001/internal/units"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService exposes the schema catalog and the stateless engine
// operations that run against one schema.
type CatalogService struct {
	catalog    driven.SchemaCatalog
	registry   *calculators.Registry
	normaliser *document.Normaliser
	newUnitID  func() string
}

// NewCatalogService creates a new catalog service. A nil normaliser uses
// the default one.
func NewCatalogService(
	catalog driven.SchemaCatalog,
	registry *calculators.Registry,
	normaliser *document.Normaliser,
) *CatalogService {
	if normaliser == nil {
		normaliser = document.New()
	}
	return &CatalogService{
		catalog:    catalog,
		registry:   registry,
		normaliser: normaliser,
		newUnitID:  normaliser.NewID,
	}
}

// List returns every schema in catalog order.
func (s *CatalogService) List() []domain.Schema {
	keys := s.catalog.Keys()
	out := make([]domain.Schema, 0, len(keys))
	for _, k := range keys {
		if schema, ok := s.catalog.Get(k); ok {
			out = append(out, *schema)
		}
	}
	return out
}

// Get returns the schema of equipment.
func (s *CatalogService) Get(equipment string) (*domain.Schema, error) {
	schema, ok := s.catalog.Get(equipment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEquipment, equipment)
	}
	return schema, nil
}

// Normalise returns the canonical document of raw.
func (s *CatalogService) Normalise(equipment string, raw map[string]any) (domain.Document, error) {
	schema, err := s.Get(equipment)
	if err != nil {
		return domain.Document{}, err
	}
	return s.normaliser.Normalise(schema, raw), nil
}

// MigratePhotos applies the schema's legacy key rules to slots.
func (s *CatalogService) MigratePhotos(equipment string, slots map[string][]domain.PhotoRef) (map[string][]domain.PhotoRef, error) {
	schema, err := s.Get(equipment)
	if err != nil {
		return nil, err
	}
	return keys.MigrateSchema(schema, slots), nil
}

// SyncUnits normalises raw and reconciles its units with its config.
func (s *CatalogService) SyncUnits(equipment string, raw map[string]any) (domain.Document, error) {
	schema, err := s.Get(equipment)
	if err != nil {
		return domain.Document{}, err
	}
	if schema.Unit == nil {
		return domain.Document{}, fmt.Errorf("%w: %q has no repeating units", domain.ErrInvalidInput, equipment)
	}
	doc := s.normaliser.Normalise(schema, raw)
	units.NewSynchronizer(s.newUnitID).Apply(schema, &doc)
	return doc, nil
}

// Derive normalises raw and computes the schema's derived values.
func (s *CatalogService) Derive(equipment string, raw map[string]any) ([]domain.DerivedValue, error) {
	schema, err := s.Get(equipment)
	if err != nil {
		return nil, err
	}
	return s.registry.Derive(schema, s.normaliser.Normalise(schema, raw)), nil
}
