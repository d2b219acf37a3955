package driving

import (
	"context"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// DraftService loads and saves normalised equipment documents.
// Failures are reported through the result envelopes, never as errors.
type DraftService interface {
	// Load returns the normalised draft under key. A missing or malformed
	// draft yields a normalised empty document with an OK result.
	Load(ctx context.Context, key, equipment string) (domain.Document, domain.LoadResult)

	// Save normalises doc and writes it under key. Identical content to the
	// last successful save is skipped.
	Save(ctx context.Context, key, equipment string, doc domain.Document) domain.Result

	// Clear removes the draft under key.
	Clear(ctx context.Context, key string) domain.Result

	// List returns stored draft keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
