package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/catalog"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/services"
)

// newCatalogService returns a catalog service over the built-in schemas.
func newCatalogService(t *testing.T) *services.CatalogService {
	t.Helper()
	reg := calculators.NewDefaultRegistry(calculators.DefaultOptions())
	cat, err := catalog.Builtin(reg)
	require.NoError(t, err)
	return services.NewCatalogService(cat, reg, nil)
}

func newTestServer(t *testing.T, drafts *mockDraftService) *Server {
	t.Helper()
	ports := &Ports{Catalog: newCatalogService(t)}
	if drafts != nil {
		ports.Drafts = drafts
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

// mockDraftService is a mock implementation of driving.DraftService.
type mockDraftService struct {
	doc    domain.Document
	result domain.LoadResult

	loadedKey       string
	loadedEquipment string
}

func (m *mockDraftService) Load(_ context.Context, key, equipment string) (domain.Document, domain.LoadResult) {
	m.loadedKey = key
	m.loadedEquipment = equipment
	return m.doc, m.result
}

func (m *mockDraftService) Save(context.Context, string, string, domain.Document) domain.Result {
	return domain.OKResult()
}

func (m *mockDraftService) Clear(context.Context, string) domain.Result {
	return domain.OKResult()
}

func (m *mockDraftService) List(context.Context, string) ([]string, error) {
	return nil, nil
}
