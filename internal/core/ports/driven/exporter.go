package driven

import (
	"context"
	"io"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// Exporter writes a tabular report to w.
type Exporter interface {
	Export(ctx context.Context, w io.Writer, report domain.ExportReport) error

	// Extension returns the file extension of the output, without a dot.
	Extension() string
}
