package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for reportdraft resources.
	uriScheme = "reportdraft://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource listing every schema.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "schemas",
		Name:        "schemas",
		Description: "Summary of every equipment schema",
		MIMEType:    "application/json",
	}, s.handleSchemasResource)

	// Template for one full schema.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "schemas/{key}",
		Name:        "schema",
		Description: "Full descriptor of one equipment schema",
		MIMEType:    "application/json",
	}, s.handleSchemaResource)

	// Template for stored drafts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "drafts/{equipment}/{+key}",
		Name:        "draft",
		Description: "Normalised stored draft of one equipment instance",
		MIMEType:    "application/json",
	}, s.handleDraftResource)
}

// handleSchemasResource returns a summary of all schemas.
func (s *Server) handleSchemasResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	schemas := s.ports.Catalog.List()
	infos := make([]EquipmentOutput, len(schemas))
	for i := range schemas {
		infos[i] = summarise(&schemas[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleSchemaResource returns the schema named in the URI.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractSchemaKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	schema, err := s.ports.Catalog.Get(key)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, schema)
}

// handleDraftResource returns a stored draft, normalised.
func (s *Server) handleDraftResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Drafts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	equipment, key := extractDraftRef(req.Params.URI)
	if equipment == "" || key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	doc, res := s.ports.Drafts.Load(ctx, key, equipment)
	if !res.OK {
		return nil, fmt.Errorf("loading draft: %s", res.Error)
	}
	if res.Draft == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, doc)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSchemaKey extracts the key from a URI like reportdraft://schemas/{key}.
func extractSchemaKey(uri string) string {
	const prefix = uriScheme + "schemas/"

	key, ok := strings.CutPrefix(uri, prefix)
	if !ok || strings.Contains(key, "/") {
		return ""
	}
	return key
}

// extractDraftRef splits a URI like reportdraft://drafts/{equipment}/{key}.
// The key may itself contain slashes.
func extractDraftRef(uri string) (equipment, key string) {
	const prefix = uriScheme + "drafts/"

	rest, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return "", ""
	}
	equipment, key, _ = strings.Cut(rest, "/")
	return equipment, key
}
