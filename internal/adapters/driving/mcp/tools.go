package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// ListEquipmentInput is the input schema for the list_equipment tool.
type ListEquipmentInput struct{}

// ListEquipmentOutput is the output schema for the list_equipment tool.
type ListEquipmentOutput struct {
	Equipment []EquipmentOutput `json:"equipment"`
	Count     int               `json:"count"`
}

// EquipmentOutput summarises one schema.
type EquipmentOutput struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Mode       string   `json:"mode"`
	Containers []string `json:"containers,omitempty"`
	PhotoSlots []string `json:"photo_slots,omitempty"`
	HasUnits   bool     `json:"has_units"`
	Derived    []string `json:"derived,omitempty"`
}

// DocumentInput is the input schema of the tools that take a raw document.
type DocumentInput struct {
	Equipment string         `json:"equipment" jsonschema:"equipment type key, see list_equipment"`
	Document  map[string]any `json:"document,omitempty" jsonschema:"raw inspection document; missing parts are filled with defaults"`
}

// DocumentOutput carries a canonical document.
type DocumentOutput struct {
	Document map[string]any `json:"document"`
	Units    int            `json:"units"`
}

// DeriveOutput is the output schema for the derive_values tool.
type DeriveOutput struct {
	Values []domain.DerivedValue `json:"values"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_equipment",
		Description: "List the equipment types that inspection documents can be written for",
	}, s.handleListEquipment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "normalise_document",
		Description: "Return the canonical, schema-complete form of an inspection document",
	}, s.handleNormalise)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_units",
		Description: "Rebuild the repeating units (rooms, classrooms) of a document from its config",
	}, s.handleSyncUnits)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "derive_values",
		Description: "Compute the read-only derived values (flow, load, efficiency, ...) of a document",
	}, s.handleDerive)
}

// handleListEquipment handles the list_equipment tool invocation.
func (s *Server) handleListEquipment(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListEquipmentInput,
) (*mcp.CallToolResult, ListEquipmentOutput, error) {
	schemas := s.ports.Catalog.List()
	output := ListEquipmentOutput{
		Equipment: make([]EquipmentOutput, len(schemas)),
		Count:     len(schemas),
	}
	for i := range schemas {
		output.Equipment[i] = summarise(&schemas[i])
	}
	return nil, output, nil
}

// handleNormalise handles the normalise_document tool invocation.
func (s *Server) handleNormalise(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Catalog.Normalise(input.Equipment, input.Document)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{Document: doc.Raw(), Units: len(doc.Units)}, nil
}

// handleSyncUnits handles the sync_units tool invocation.
func (s *Server) handleSyncUnits(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Catalog.SyncUnits(input.Equipment, input.Document)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{Document: doc.Raw(), Units: len(doc.Units)}, nil
}

// handleDerive handles the derive_values tool invocation.
func (s *Server) handleDerive(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, DeriveOutput, error) {
	values, err := s.ports.Catalog.Derive(input.Equipment, input.Document)
	if err != nil {
		return nil, DeriveOutput{}, err
	}
	if values == nil {
		values = []domain.DerivedValue{}
	}
	return nil, DeriveOutput{Values: values}, nil
}

func summarise(schema *domain.Schema) EquipmentOutput {
	out := EquipmentOutput{
		Key:        schema.Key,
		Label:      schema.Label,
		Mode:       string(schema.Mode),
		PhotoSlots: schema.PhotoIDs(),
		HasUnits:   schema.Unit != nil,
	}
	for _, c := range schema.Shape.Containers {
		out.Containers = append(out.Containers, c.Key)
	}
	for _, d := range schema.Derived {
		out.Derived = append(out.Derived, d.Key)
	}
	return out
}
