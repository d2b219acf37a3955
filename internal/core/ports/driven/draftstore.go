package driven

import (
	"context"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// DraftStore is a keyed blob store for report drafts.
// Implementations must be safe for concurrent use.
type DraftStore interface {
	// Save writes data under key, replacing any previous draft.
	Save(ctx context.Context, key string, data []byte) error

	// Load reads the draft under key.
	// Returns nil and no error when no draft exists.
	Load(ctx context.Context, key string) (*domain.Draft, error)

	// Clear removes the draft under key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error

	// List returns the keys starting with prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases the underlying connection.
	Close() error
}
