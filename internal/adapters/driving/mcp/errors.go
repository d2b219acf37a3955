// Package mcp provides an MCP (Model Context Protocol) server adapter for reportdraft.
// It lets AI assistants inspect equipment schemas and normalise, reconcile and
// evaluate inspection documents.
package mcp

import "errors"

// ErrMissingCatalogService is returned when the catalog service is not provided.
var ErrMissingCatalogService = errors.New("mcp: catalog service is required")
