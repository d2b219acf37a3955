// Package stub provides an in-memory driven.ReportAPI used until the remote
// report service is configured. A Repository lives for the whole process and
// is passed to whoever needs it; there is no package-level state.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// Repository holds accounts, buildings, drafts and submitted reports in memory.
type Repository struct {
	mu        sync.RWMutex
	codes     map[string]string
	verified  map[string]bool
	accounts  map[string]domain.Registration
	buildings []domain.Building
	drafts    map[string]domain.Draft
	reports   map[string]domain.Report

	newID   func() string
	newCode func() string
	now     func() time.Time
}

var _ driven.ReportAPI = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithBuildings seeds the building list.
func WithBuildings(buildings ...domain.Building) Option {
	return func(r *Repository) {
		r.buildings = append(r.buildings, buildings...)
	}
}

// WithCodeGenerator replaces the verification code generator.
func WithCodeGenerator(fn func() string) Option {
	return func(r *Repository) { r.newCode = fn }
}

// WithIDGenerator replaces the building and report id generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// WithClock replaces the time source.
func WithClock(fn func() time.Time) Option {
	return func(r *Repository) { r.now = fn }
}

// NewRepository creates an empty repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		codes:    make(map[string]string),
		verified: make(map[string]bool),
		accounts: make(map[string]domain.Registration),
		drafts:   make(map[string]domain.Draft),
		reports:  make(map[string]domain.Report),
		newID:    uuid.NewString,
		newCode:  sixDigitCode,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RequestEmailCode issues a verification code for email.
func (r *Repository) RequestEmailCode(_ context.Context, email string) (domain.Envelope, error) {
	email = normaliseEmail(email)
	if !strings.Contains(email, "@") {
		return reject("invalid email"), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codes[email] = r.newCode()
	delete(r.verified, email)
	return accept(map[string]any{"email": email, "sent": true})
}

// VerifyEmailCode checks the code last issued for the email.
func (r *Repository) VerifyEmailCode(_ context.Context, v domain.EmailVerification) (domain.Envelope, error) {
	email := normaliseEmail(v.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	code, ok := r.codes[email]
	if !ok || code != strings.TrimSpace(v.Code) {
		return reject("invalid verification code"), nil
	}
	r.verified[email] = true
	return accept(map[string]any{"email": email, "verified": true})
}

// Register creates an account for a verified email.
func (r *Repository) Register(_ context.Context, reg domain.Registration) (domain.Envelope, error) {
	reg.Email = normaliseEmail(reg.Email)
	switch {
	case strings.TrimSpace(reg.Name) == "":
		return reject("name is required"), nil
	case len(reg.Password) < MinPasswordLength:
		return reject(fmt.Sprintf("password must be at least %d characters", MinPasswordLength)), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.verified[reg.Email] {
		return reject("email not verified"), nil
	}
	if _, exists := r.accounts[reg.Email]; exists {
		return reject("email already registered"), nil
	}
	reg.Password = ""
	r.accounts[reg.Email] = reg
	return accept(map[string]any{"email": reg.Email, "name": reg.Name})
}

// GetBuildings lists buildings whose name contains q.Name, case-insensitively,
// in creation order.
func (r *Repository) GetBuildings(_ context.Context, q domain.BuildingQuery) (domain.Envelope, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Name))
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Building, 0, len(r.buildings))
	for _, b := range r.buildings {
		if needle != "" && !strings.Contains(strings.ToLower(b.Name), needle) {
			continue
		}
		out = append(out, b)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return accept(out)
}

// CreateBuilding appends a building and returns it with its new id.
func (r *Repository) CreateBuilding(_ context.Context, b domain.Building) (domain.Envelope, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return reject("building name is required"), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = r.newID()
	b.CreatedAt = r.now()
	r.buildings = append(r.buildings, b)
	return accept(b)
}

// SaveDraft stores a remote copy of a draft.
func (r *Repository) SaveDraft(_ context.Context, d domain.Draft) (domain.Envelope, error) {
	if d.Key == "" {
		return reject("draft key is required"), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d.SavedAt = r.now()
	d.Data = append(json.RawMessage(nil), d.Data...)
	r.drafts[d.Key] = d
	return accept(map[string]any{"key": d.Key, "savedAt": d.SavedAt})
}

// SubmitReport records a report for an existing building.
func (r *Repository) SubmitReport(_ context.Context, rep domain.Report) (domain.Envelope, error) {
	if len(rep.Entries) == 0 {
		return reject("report has no equipment entries"), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasBuilding(rep.BuildingID) {
		return reject("unknown building"), nil
	}
	if rep.ID == "" {
		rep.ID = r.newID()
	}
	rep.CreatedAt = r.now()
	r.reports[rep.ID] = rep
	return accept(map[string]any{"id": rep.ID, "entries": len(rep.Entries)})
}

// Reports returns the ids of submitted reports, sorted.
func (r *Repository) Reports() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.reports))
	for id := range r.reports {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PendingCode returns the code last issued for email.
func (r *Repository) PendingCode(email string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	code, ok := r.codes[normaliseEmail(email)]
	return code, ok
}

func (r *Repository) hasBuilding(id string) bool {
	for _, b := range r.buildings {
		if b.ID == id {
			return true
		}
	}
	return false
}

func accept(payload any) (domain.Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("encoding payload: %w", err)
	}
	return domain.Envelope{OK: true, Data: data}, nil
}

func reject(msg string) domain.Envelope {
	return domain.Envelope{OK: false, Error: msg}
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sixDigitCode() string {
	return fmt.Sprintf("%06d", uuid.New().ID()%1000000)
}
