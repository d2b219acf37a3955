// Package tui provides the interactive form editor for inspection drafts.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog lists equipment schemas.
	Catalog driving.CatalogService

	// Sessions opens form sessions over drafts.
	Sessions driving.SessionService

	// Drafts lists and clears stored drafts. Optional.
	Drafts driving.DraftService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService

	// Scheduler retries deferred autosaves of open sessions. Optional.
	Scheduler driving.AutosaveScheduler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
