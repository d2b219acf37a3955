package driving

import (
	"context"
	"io"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// ReportService talks to the remote report API and assembles reports from
// stored drafts.
type ReportService interface {
	RequestEmailCode(ctx context.Context, email string) domain.Envelope
	VerifyEmailCode(ctx context.Context, email, code string) domain.Envelope
	Register(ctx context.Context, r domain.Registration) domain.Envelope
	GetBuildings(ctx context.Context, q domain.BuildingQuery) ([]domain.Building, domain.Envelope)
	CreateBuilding(ctx context.Context, name, address string) (*domain.Building, domain.Envelope)

	// SaveDraft uploads the stored draft under key.
	SaveDraft(ctx context.Context, key string) domain.Envelope

	// SubmitReport collects every draft stored under reportID and submits them.
	SubmitReport(ctx context.Context, reportID, buildingID, title string) domain.Envelope

	// Export writes every draft stored under reportID to w.
	Export(ctx context.Context, w io.Writer, reportID, title, building string) error
}
