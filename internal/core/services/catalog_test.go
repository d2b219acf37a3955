package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
)

func newTestCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	n := 0
	normaliser := document.New(document.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return NewCatalogService(newTestCatalog(t), newTestRegistry(), normaliser)
}

func TestCatalogService_List(t *testing.T) {
	service := newTestCatalogService(t)

	schemas := service.List()

	require.Len(t, schemas, 8)
	keys := make([]string, len(schemas))
	for i, s := range schemas {
		keys[i] = s.Key
	}
	assert.Contains(t, keys, "fan")
	assert.Contains(t, keys, "hotel_noise")
	assert.Equal(t, "fan", keys[0])
}

func TestCatalogService_Get(t *testing.T) {
	service := newTestCatalogService(t)

	schema, err := service.Get("pump")
	require.NoError(t, err)
	assert.Equal(t, "pump", schema.Key)

	_, err = service.Get("boiler")
	assert.ErrorIs(t, err, domain.ErrUnsupportedEquipment)
}

func TestCatalogService_Normalise(t *testing.T) {
	service := newTestCatalogService(t)

	doc, err := service.Normalise("fan", map[string]any{
		"rated":  map[string]any{"voltage": 380.0},
		"legacy": "kept",
	})

	require.NoError(t, err)
	assert.Equal(t, "380", doc.Containers["rated"]["voltage"])
	assert.Equal(t, "kept", doc.Extra["legacy"])

	_, err = service.Normalise("boiler", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedEquipment)
}

func TestCatalogService_MigratePhotos(t *testing.T) {
	service := newTestCatalogService(t)
	photo := domain.PhotoRef{DataURL: "data:image/png;base64,AA"}

	slots, err := service.MigratePhotos("fan", map[string][]domain.PhotoRef{
		"namePlate": {photo},
		"panel":     {photo},
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.PhotoRef{photo}, slots["nameplate"])
	assert.Equal(t, []domain.PhotoRef{photo}, slots["panelFront"])
	assert.Equal(t, []domain.PhotoRef{photo}, slots["panelInside"])
	assert.NotContains(t, slots, "namePlate")
	assert.NotContains(t, slots, "panel")
}

func TestCatalogService_SyncUnits(t *testing.T) {
	service := newTestCatalogService(t)

	doc, err := service.SyncUnits("hotel_noise", map[string]any{
		"config": map[string]any{"roomCount": 2, "hasClassroom": true, "classroomCount": 1},
	})

	require.NoError(t, err)
	require.Len(t, doc.Units, 3)
	assert.Equal(t, domain.KindRoom, doc.Units[0].Kind)
	assert.Equal(t, "101", doc.Units[0].No)
	assert.Equal(t, domain.KindClassroom, doc.Units[2].Kind)
	for _, u := range doc.Units {
		assert.NotEmpty(t, u.ID)
		assert.Contains(t, u.PhotoSlots, "meter")
	}

	_, err = service.SyncUnits("fan", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogService_Derive(t *testing.T) {
	service := newTestCatalogService(t)

	values, err := service.Derive("fan", map[string]any{
		"measured": map[string]any{
			"velocity": []any{"2", "2", "2", "2", "2", "2"},
			"width":    "0.5",
			"height":   "0.5",
		},
	})

	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "flow", values[0].Key)
	assert.Equal(t, 1800.0, values[0].Value)
	assert.True(t, values[0].OK)

	_, err = service.Derive("boiler", nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedEquipment)
}
