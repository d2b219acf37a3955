package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() Document {
	d := NewDocument()
	d.Containers["rated"] = map[string]any{"voltage": 380.0, "model": "FX-1"}
	d.Containers["measured"] = map[string]any{"velocity": []string{"1", "2", "", "", "", ""}}
	d.Checklist["belt tension"] = "ok"
	d.Notes["general"] = "noisy bearing"
	d.PhotoSlots["overview"] = []PhotoRef{{DataURL: "data:image/png;base64,AA", Name: "a.png"}}
	cfg := DefaultUnitConfig()
	d.Config = &cfg
	d.Units = []Unit{{ID: "u1", Kind: KindRoom, No: "101", Fields: map[string]any{"noiseDb": "40"}}}
	return d
}

func TestDocument_Raw(t *testing.T) {
	raw := sampleDocument().Raw()

	rated, ok := raw["rated"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 380.0, rated["voltage"])

	measured := raw["measured"].(map[string]any)
	assert.Equal(t, []any{"1", "2", "", "", "", ""}, measured["velocity"])

	slots := raw[KeyPhotoSlots].(map[string]any)
	assert.Equal(t, []any{map[string]any{"dataUrl": "data:image/png;base64,AA", "name": "a.png"}}, slots["overview"])

	units := raw[KeyUnits].([]any)
	require.Len(t, units, 1)
	assert.Equal(t, "101", units[0].(map[string]any)["no"])
	assert.Equal(t, 101.0, raw[KeyConfig].(map[string]any)["numbering"].(map[string]any)["start"])
}

func TestDocument_Raw_NoUnitsWithoutConfig(t *testing.T) {
	d := NewDocument()
	raw := d.Raw()

	_, hasUnits := raw[KeyUnits]
	_, hasConfig := raw[KeyConfig]
	assert.False(t, hasUnits)
	assert.False(t, hasConfig)
	assert.Equal(t, map[string]any{}, raw[KeyPhotoSlots])
}

func TestDocument_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(sampleDocument())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "noisy bearing", decoded[KeyNotes].(map[string]any)["general"])
}

func TestDocument_Clone_IsDeep(t *testing.T) {
	d := sampleDocument()
	c := d.Clone()

	c.Containers["rated"]["voltage"] = 220.0
	c.Containers["measured"]["velocity"].([]string)[0] = "9"
	c.PhotoSlots["overview"][0].Name = "changed"
	c.Units[0].Fields["noiseDb"] = "50"
	c.Config.RoomCount = 4

	assert.Equal(t, 380.0, d.Containers["rated"]["voltage"])
	assert.Equal(t, "1", d.Containers["measured"]["velocity"].([]string)[0])
	assert.Equal(t, "a.png", d.PhotoSlots["overview"][0].Name)
	assert.Equal(t, "40", d.Units[0].Fields["noiseDb"])
	assert.Equal(t, 0, d.Config.RoomCount)
}

func TestDocument_SetGet(t *testing.T) {
	d := sampleDocument()

	require.NoError(t, d.Set("rated.voltage", 220.0))
	require.NoError(t, d.Set("measured.velocity.2", "3.5"))
	require.NoError(t, d.Set("checklist.belt tension", "loose"))
	require.NoError(t, d.Set("notes.general", "fine"))
	require.NoError(t, d.Set("config.roomCount", "3"))
	require.NoError(t, d.Set("config.numbering.mode", "manual"))
	require.NoError(t, d.Set("units.u1.no", "102"))
	require.NoError(t, d.Set("units.u1.fields.noiseDb", "45"))

	tests := []struct {
		path string
		want any
	}{
		{"rated.voltage", 220.0},
		{"measured.velocity.2", "3.5"},
		{"checklist.belt tension", "loose"},
		{"notes.general", "fine"},
		{"config.roomCount", 3},
		{"config.numbering.mode", "manual"},
		{"units.u1.no", "102"},
		{"units.u1.fields.noiseDb", "45"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := d.Get(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocument_Set_ClampsUnitCounts(t *testing.T) {
	d := sampleDocument()

	require.NoError(t, d.Set("config.roomCount", "1e18"))
	require.NoError(t, d.Set("config.classroomCount", -2))

	assert.Equal(t, MaxUnits, d.Config.RoomCount)
	assert.Equal(t, 0, d.Config.ClassroomCount)
}

func TestIntValue_Saturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, IntValue(1e300, 0))
	assert.Equal(t, math.MinInt, IntValue("-1e300", 0))
	assert.Equal(t, 7, IntValue(math.NaN(), 7))
}

func TestDocument_Set_InvalidPaths(t *testing.T) {
	d := sampleDocument()

	for _, path := range []string{
		"rated",
		"unknown.field",
		"measured.velocity.6",
		"measured.velocity.x",
		"photoSlots.overview",
		"units.missing.no",
		"units.u1.kind",
		"config.colour",
	} {
		t.Run(path, func(t *testing.T) {
			assert.ErrorIs(t, d.Set(path, "1"), ErrInvalidPath)
		})
	}

	noUnits := NewDocument()
	assert.ErrorIs(t, noUnits.Set("config.roomCount", 2), ErrInvalidPath)
}

func TestDocument_SetPhotos_DropsZeroRefs(t *testing.T) {
	d := NewDocument()
	d.SetPhotos("overview", []PhotoRef{{}, {DataURL: "data:x"}, {Name: "nameless"}})

	assert.Equal(t, []PhotoRef{{DataURL: "data:x"}}, d.PhotoSlots["overview"])
}

func TestPhotoInput_Variants(t *testing.T) {
	assert.Equal(t, PhotoEmpty, NoPhotos().Kind())
	assert.Equal(t, PhotoEmpty, SinglePhoto(PhotoRef{}).Kind())
	assert.Equal(t, PhotoSingle, SinglePhoto(PhotoRef{DataURL: "a"}).Kind())
	assert.Equal(t, PhotoEmpty, ManyPhotos([]PhotoRef{{}, {}}).Kind())

	many := ManyPhotos([]PhotoRef{{DataURL: "a"}, {}, {DataURL: "b"}})
	assert.Equal(t, PhotoMany, many.Kind())
	assert.Equal(t, []PhotoRef{{DataURL: "a"}, {DataURL: "b"}}, many.Refs())
	assert.NotNil(t, NoPhotos().Refs())
}

func TestValueCoercion(t *testing.T) {
	assert.Equal(t, 3, IntValue(" 3 ", 0))
	assert.Equal(t, 2, IntValue("2.7", 0))
	assert.Equal(t, 7, IntValue("abc", 7))
	assert.Equal(t, 5, IntValue(5.0, 0))
	assert.Equal(t, 9, IntValue(nil, 9))

	assert.True(t, BoolValue("true"))
	assert.True(t, BoolValue(true))
	assert.False(t, BoolValue("yes"))

	assert.Equal(t, "0.9", StringValue(0.9))
	assert.Equal(t, "12", StringValue(12))
	assert.Equal(t, "", StringValue(map[string]any{}))
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "r1/fan/2", DraftKey("r1", "fan", "2"))
	assert.Equal(t, "r1/fan", DraftKey(" r1 ", "fan", " "))
}

func TestEnvelope_Decode(t *testing.T) {
	env := Envelope{OK: true, Data: json.RawMessage(`{"id":"b1","name":"HQ"}`)}
	var b Building
	require.NoError(t, env.Decode(&b))
	assert.Equal(t, "HQ", b.Name)

	var untouched Building
	require.NoError(t, Envelope{OK: true}.Decode(&untouched))
	assert.Empty(t, untouched.ID)
}

func TestPhotoRef_MetaRoundTrip(t *testing.T) {
	ref := PhotoRef{Name: "site.jpg", Meta: map[string]any{"size": 1234.0}}

	assert.False(t, ref.IsZero())
	assert.True(t, PhotoRef{}.IsZero())
	assert.Equal(t, map[string]any{"dataUrl": "", "name": "site.jpg", "size": 1234.0}, ref.Raw())

	c := ref.Clone()
	c.Meta["size"] = 1.0
	assert.Equal(t, 1234.0, ref.Meta["size"])
}
