package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

func TestExtractSchemaKey(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid schema URI", uri: "reportdraft://schemas/fan", expected: "fan"},
		{name: "invalid prefix", uri: "file://schemas/fan", expected: ""},
		{name: "nested path", uri: "reportdraft://schemas/fan/extra", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractSchemaKey(tt.uri))
		})
	}
}

func TestExtractDraftRef(t *testing.T) {
	tests := []struct {
		name      string
		uri       string
		equipment string
		key       string
	}{
		{name: "key with slashes", uri: "reportdraft://drafts/fan/r1/fan/2", equipment: "fan", key: "r1/fan/2"},
		{name: "missing key", uri: "reportdraft://drafts/fan", equipment: "fan", key: ""},
		{name: "invalid prefix", uri: "reportdraft://schemas/fan", equipment: "", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			equipment, key := extractDraftRef(tt.uri)
			assert.Equal(t, tt.equipment, equipment)
			assert.Equal(t, tt.key, key)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleSchemasResource(t *testing.T) {
	server := newTestServer(t, nil)

	result, err := server.handleSchemasResource(context.Background(), makeReadResourceRequest("reportdraft://schemas"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	var infos []EquipmentOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
	assert.Len(t, infos, 8)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
}

func TestServer_handleSchemaResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, nil)

	t.Run("returns the schema", func(t *testing.T) {
		result, err := server.handleSchemaResource(ctx, makeReadResourceRequest("reportdraft://schemas/hotel_noise"))

		require.NoError(t, err)
		var schema domain.Schema
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &schema))
		assert.Equal(t, "hotel_noise", schema.Key)
		require.NotNil(t, schema.Unit)
		assert.Len(t, schema.Unit.Kinds, 2)
	})

	t.Run("unknown schema is not found", func(t *testing.T) {
		_, err := server.handleSchemaResource(ctx, makeReadResourceRequest("reportdraft://schemas/boiler"))
		require.Error(t, err)
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		_, err := server.handleSchemaResource(ctx, makeReadResourceRequest("reportdraft://other"))
		require.Error(t, err)
	})
}

func TestServer_handleDraftResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil draft service returns not found", func(t *testing.T) {
		server := newTestServer(t, nil)
		_, err := server.handleDraftResource(ctx, makeReadResourceRequest("reportdraft://drafts/fan/r1/fan"))
		require.Error(t, err)
	})

	t.Run("returns the stored draft", func(t *testing.T) {
		doc := domain.NewDocument()
		doc.Notes["general"] = "checked"
		drafts := &mockDraftService{
			doc:    doc,
			result: domain.LoadResult{Result: domain.OKResult(), Draft: &domain.Draft{Key: "r1/fan"}},
		}
		server := newTestServer(t, drafts)

		result, err := server.handleDraftResource(ctx, makeReadResourceRequest("reportdraft://drafts/fan/r1/fan"))

		require.NoError(t, err)
		assert.Equal(t, "r1/fan", drafts.loadedKey)
		assert.Equal(t, "fan", drafts.loadedEquipment)
		assert.Contains(t, result.Contents[0].Text, "checked")
	})

	t.Run("missing draft is not found", func(t *testing.T) {
		drafts := &mockDraftService{result: domain.LoadResult{Result: domain.OKResult()}}
		server := newTestServer(t, drafts)

		_, err := server.handleDraftResource(ctx, makeReadResourceRequest("reportdraft://drafts/fan/r9/fan"))
		require.Error(t, err)
	})

	t.Run("load failure is reported", func(t *testing.T) {
		drafts := &mockDraftService{result: domain.LoadResult{Result: domain.FailResult(domain.ErrStorage)}}
		server := newTestServer(t, drafts)

		_, err := server.handleDraftResource(ctx, makeReadResourceRequest("reportdraft://drafts/fan/r1/fan"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading draft")
	})
}
