package driven

import "github.com/enplussmartenergy/erp-sub001/internal/core/domain"

// SchemaCatalog resolves equipment schemas.
type SchemaCatalog interface {
	// Get returns the schema for an equipment key.
	Get(key string) (*domain.Schema, bool)

	// Keys returns every equipment key in display order.
	Keys() []string
}
