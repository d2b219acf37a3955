package driven

import (
	"context"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// ReportAPI is the remote account, building and report service.
// Every call answers with an envelope; a returned error means the call
// never produced one (transport failure, undecodable body).
type ReportAPI interface {
	RequestEmailCode(ctx context.Context, email string) (domain.Envelope, error)
	VerifyEmailCode(ctx context.Context, v domain.EmailVerification) (domain.Envelope, error)
	Register(ctx context.Context, r domain.Registration) (domain.Envelope, error)
	GetBuildings(ctx context.Context, q domain.BuildingQuery) (domain.Envelope, error)
	CreateBuilding(ctx context.Context, b domain.Building) (domain.Envelope, error)
	SaveDraft(ctx context.Context, d domain.Draft) (domain.Envelope, error)
	SubmitReport(ctx context.Context, r domain.Report) (domain.Envelope, error)
}
