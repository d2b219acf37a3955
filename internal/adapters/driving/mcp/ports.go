package mcp

import (
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Catalog exposes schemas and the document engine.
	Catalog driving.CatalogService

	// Drafts reads stored drafts. Optional.
	Drafts driving.DraftService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Catalog == nil {
		return ErrMissingCatalogService
	}
	return nil
}
