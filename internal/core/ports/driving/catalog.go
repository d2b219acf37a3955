package driving

import "github.com/enplussmartenergy/erp-sub001/internal/core/domain"

// CatalogService exposes equipment schemas and the pure document engine.
type CatalogService interface {
	// List returns every schema in display order.
	List() []domain.Schema

	// Get returns the schema for an equipment key.
	// Returns domain.ErrUnsupportedEquipment for unknown keys.
	Get(equipment string) (*domain.Schema, error)

	// Normalise returns the canonical document for raw.
	Normalise(equipment string, raw map[string]any) (domain.Document, error)

	// MigratePhotos applies the schema's photo slot migrations to slots.
	MigratePhotos(equipment string, slots map[string][]domain.PhotoRef) (map[string][]domain.PhotoRef, error)

	// SyncUnits normalises raw and reconciles its units with its config.
	SyncUnits(equipment string, raw map[string]any) (domain.Document, error)

	// Derive computes the schema's derived values for raw.
	Derive(equipment string, raw map[string]any) ([]domain.DerivedValue, error)
}
