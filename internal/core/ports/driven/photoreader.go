package driven

import (
	"context"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// PhotoReader turns a selected file into a photo reference.
type PhotoReader interface {
	Read(ctx context.Context, file domain.FileHandle) (domain.PhotoRef, error)
}
