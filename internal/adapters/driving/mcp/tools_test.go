package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

func TestServer_handleListEquipment(t *testing.T) {
	server := newTestServer(t, nil)

	_, output, err := server.handleListEquipment(context.Background(), nil, ListEquipmentInput{})

	require.NoError(t, err)
	assert.Equal(t, 8, output.Count)
	require.Len(t, output.Equipment, 8)
	fan := output.Equipment[0]
	assert.Equal(t, "fan", fan.Key)
	assert.Equal(t, []string{"rated", "measured"}, fan.Containers)
	assert.Contains(t, fan.PhotoSlots, "nameplate")
	assert.Equal(t, []string{"flow", "loadKW"}, fan.Derived)
	assert.False(t, fan.HasUnits)
}

func TestServer_handleNormalise(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, nil)

	t.Run("fills defaults and migrates legacy photo keys", func(t *testing.T) {
		input := DocumentInput{
			Equipment: "fan",
			Document: map[string]any{
				"rated": map[string]any{"voltage": 380.0},
				"photoSlots": map[string]any{
					"namePlate": []any{map[string]any{"dataUrl": "data:image/png;base64,AA"}},
				},
			},
		}

		_, output, err := server.handleNormalise(ctx, nil, input)

		require.NoError(t, err)
		rated := output.Document["rated"].(map[string]any)
		assert.Equal(t, "380", rated["voltage"])
		assert.Equal(t, "", rated["model"])
		slots := output.Document["photoSlots"].(map[string]any)
		assert.Len(t, slots["nameplate"], 1)
		assert.NotContains(t, slots, "namePlate")
	})

	t.Run("unknown equipment", func(t *testing.T) {
		_, _, err := server.handleNormalise(ctx, nil, DocumentInput{Equipment: "boiler"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedEquipment)
	})
}

func TestServer_handleSyncUnits(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, nil)

	_, output, err := server.handleSyncUnits(ctx, nil, DocumentInput{
		Equipment: "hotel_noise",
		Document: map[string]any{
			"config": map[string]any{"roomCount": 3, "numbering": map[string]any{"mode": "manual", "manualListText": "301, 302"}},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, output.Units)
	units := output.Document["units"].([]any)
	assert.Equal(t, "301", units[0].(map[string]any)["no"])
	assert.Equal(t, "", units[2].(map[string]any)["no"])

	_, _, err = server.handleSyncUnits(ctx, nil, DocumentInput{Equipment: "fan"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleDerive(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, nil)

	_, output, err := server.handleDerive(ctx, nil, DocumentInput{
		Equipment: "fan",
		Document: map[string]any{
			"measured": map[string]any{"voltage": "380", "current": "10"},
		},
	})

	require.NoError(t, err)
	require.Len(t, output.Values, 2)
	assert.Equal(t, "loadKW", output.Values[1].Key)
	assert.Equal(t, "5.92", output.Values[1].Text)

	_, output, err = server.handleDerive(ctx, nil, DocumentInput{Equipment: "photo_board"})
	require.NoError(t, err)
	assert.NotNil(t, output.Values)
	assert.Empty(t, output.Values)

	_, _, err = server.handleDerive(ctx, nil, DocumentInput{Equipment: "boiler"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedEquipment)
}
