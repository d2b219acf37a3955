package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ErrEmptyReport is returned when a report has no stored drafts.
var ErrEmptyReport = errors.New("report has no drafts")

// ReportService talks to the report API and assembles reports from the
// drafts stored under a report id.
type ReportService struct {
	api      driven.ReportAPI
	drafts   driving.DraftService
	store    driven.DraftStore
	catalog  driven.SchemaCatalog
	registry *calculators.Registry
	exporter driven.Exporter
	now      func() time.Time
}

// NewReportService creates a new report service. exporter may be nil when
// exporting is not needed.
func NewReportService(
	api driven.ReportAPI,
	drafts driving.DraftService,
	store driven.DraftStore,
	catalog driven.SchemaCatalog,
	registry *calculators.Registry,
	exporter driven.Exporter,
) *ReportService {
	return &ReportService{
		api:      api,
		drafts:   drafts,
		store:    store,
		catalog:  catalog,
		registry: registry,
		exporter: exporter,
		now:      time.Now,
	}
}

// RequestEmailCode asks the API to send a verification code to email.
func (s *ReportService) RequestEmailCode(ctx context.Context, email string) domain.Envelope {
	return envelope(s.api.RequestEmailCode(ctx, strings.TrimSpace(email)))
}

// VerifyEmailCode confirms the code sent to email.
func (s *ReportService) VerifyEmailCode(ctx context.Context, email, code string) domain.Envelope {
	return envelope(s.api.VerifyEmailCode(ctx, domain.EmailVerification{
		Email: strings.TrimSpace(email),
		Code:  strings.TrimSpace(code),
	}))
}

// Register creates an account for a verified email.
func (s *ReportService) Register(ctx context.Context, r domain.Registration) domain.Envelope {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return envelope(s.api.Register(ctx, r))
}

// GetBuildings lists buildings matching q.
func (s *ReportService) GetBuildings(ctx context.Context, q domain.BuildingQuery) ([]domain.Building, domain.Envelope) {
	env := envelope(s.api.GetBuildings(ctx, q))
	if !env.OK {
		return nil, env
	}
	var buildings []domain.Building
	if err := env.Decode(&buildings); err != nil {
		return nil, failEnvelope(fmt.Errorf("decode buildings: %w", err))
	}
	return buildings, env
}

// CreateBuilding registers a new building.
func (s *ReportService) CreateBuilding(ctx context.Context, name, address string) (*domain.Building, domain.Envelope) {
	env := envelope(s.api.CreateBuilding(ctx, domain.Building{
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
	}))
	if !env.OK {
		return nil, env
	}
	var b domain.Building
	if err := env.Decode(&b); err != nil {
		return nil, failEnvelope(fmt.Errorf("decode building: %w", err))
	}
	return &b, env
}

// SaveDraft uploads the locally stored draft under key.
func (s *ReportService) SaveDraft(ctx context.Context, key string) domain.Envelope {
	draft, err := s.store.Load(ctx, key)
	if err != nil {
		return failEnvelope(err)
	}
	if draft == nil {
		return failEnvelope(fmt.Errorf("%w: draft %q", domain.ErrNotFound, key))
	}
	return envelope(s.api.SaveDraft(ctx, *draft))
}

// SubmitReport sends every draft stored under reportID as one report.
func (s *ReportService) SubmitReport(ctx context.Context, reportID, buildingID, title string) domain.Envelope {
	entries, err := s.entries(ctx, reportID)
	if err != nil {
		return failEnvelope(err)
	}
	env := envelope(s.api.SubmitReport(ctx, domain.Report{
		ID:         reportID,
		BuildingID: buildingID,
		Title:      title,
		Entries:    entries,
		CreatedAt:  s.now(),
	}))
	if env.OK {
		logger.Info("report %s submitted with %d entries", reportID, len(entries))
	}
	return env
}

// Export writes the drafts stored under reportID through the exporter.
func (s *ReportService) Export(ctx context.Context, w io.Writer, reportID, title, building string) error {
	if s.exporter == nil {
		return fmt.Errorf("export: %w", domain.ErrNotImplemented)
	}
	entries, err := s.entries(ctx, reportID)
	if err != nil {
		return err
	}

	report := domain.ExportReport{
		ID:        reportID,
		Title:     title,
		Building:  building,
		Generated: s.now(),
		Sheets:    make([]domain.ExportSheet, 0, len(entries)),
	}
	for _, e := range entries {
		schema, _ := s.catalog.Get(e.Equipment)
		report.Sheets = append(report.Sheets, s.sheet(schema, e))
	}

	if err := s.exporter.Export(ctx, w, report); err != nil {
		return fmt.Errorf("export %s: %w", reportID, err)
	}
	logger.Info("report %s exported as %s (%d sheets)", reportID, s.exporter.Extension(), len(report.Sheets))
	return nil
}

// entries loads and normalises every draft stored under reportID.
func (s *ReportService) entries(ctx context.Context, reportID string) ([]domain.EquipmentEntry, error) {
	reportID = strings.TrimSpace(reportID)
	if reportID == "" {
		return nil, fmt.Errorf("%w: empty report id", domain.ErrInvalidInput)
	}
	keys, err := s.drafts.List(ctx, reportID+"/")
	if err != nil {
		return nil, err
	}

	var entries []domain.EquipmentEntry
	for _, key := range keys {
		parts := strings.SplitN(strings.TrimPrefix(key, reportID+"/"), "/", 2)
		equipment := parts[0]
		if _, ok := s.catalog.Get(equipment); !ok {
			logger.Warn("report %s: skipping draft %s: unsupported equipment %q", reportID, key, equipment)
			continue
		}
		doc, res := s.drafts.Load(ctx, key, equipment)
		if !res.OK {
			return nil, fmt.Errorf("%w: load %s: %s", domain.ErrStorage, key, res.Error)
		}
		entry := domain.EquipmentEntry{Equipment: equipment, Document: doc}
		if len(parts) == 2 {
			entry.Instance = parts[1]
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyReport, reportID)
	}
	return entries, nil
}

func (s *ReportService) sheet(schema *domain.Schema, e domain.EquipmentEntry) domain.ExportSheet {
	sheet := domain.ExportSheet{Name: e.Equipment}
	if schema == nil {
		return sheet
	}
	sheet.Name = schema.Label
	if e.Instance != "" {
		sheet.Name += " " + e.Instance
	}

	doc := e.Document
	for _, c := range schema.Shape.Containers {
		for _, f := range c.Fields {
			sheet.Rows = append(sheet.Rows, domain.ExportRow{
				Group: c.Key,
				Label: fieldLabel(f),
				Value: exportValue(doc.Containers[c.Key][f.Key]),
			})
		}
	}
	for _, item := range schema.Checklist {
		sheet.Rows = append(sheet.Rows, domain.ExportRow{
			Group: domain.KeyChecklist,
			Label: item,
			Value: doc.Checklist[item],
		})
	}
	for _, u := range doc.Units {
		group := u.Kind + " " + u.No
		if schema.Unit != nil {
			group = schema.Unit.KindLabel(u.Kind) + " " + u.No
			for _, f := range schema.Unit.Fields {
				sheet.Rows = append(sheet.Rows, domain.ExportRow{
					Group: group,
					Label: fieldLabel(f),
					Value: exportValue(u.Fields[f.Key]),
				})
			}
		}
		for _, refs := range u.PhotoSlots {
			sheet.Photos += len(refs)
		}
	}
	for _, key := range schema.NoteKeys() {
		if note := doc.Notes[key]; note != "" {
			sheet.Rows = append(sheet.Rows, domain.ExportRow{Group: domain.KeyNotes, Label: key, Value: note})
		}
	}
	for _, refs := range doc.PhotoSlots {
		sheet.Photos += len(refs)
	}

	if s.registry != nil {
		for _, d := range s.registry.Derive(schema, doc) {
			sheet.Derived = append(sheet.Derived, domain.ExportRow{Label: d.Label, Value: d.Text, Unit: d.Unit})
		}
	}
	return sheet
}

func fieldLabel(f domain.FieldSpec) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Key
}

func exportValue(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return domain.StringValue(v)
}

// envelope converts a transport error into a failed envelope.
func envelope(env domain.Envelope, err error) domain.Envelope {
	if err != nil {
		return failEnvelope(err)
	}
	if !env.OK {
		logger.Debug("report api rejected request: %s", env.Error)
	}
	return env
}

func failEnvelope(err error) domain.Envelope {
	return domain.Envelope{OK: false, Error: err.Error()}
}
