package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

func fanSchema() *domain.Schema {
	return &domain.Schema{
		Key:       "fan",
		Label:     "Fan",
		Mode:      domain.ModeCalc,
		Checklist: []string{"belt tension", "vibration"},
		Photos: []domain.Slot{
			{ID: "nameplate", Label: "Nameplate"},
			{ID: "overview", Label: "Overview"},
			{ID: "panelFront", Label: "Panel front"},
			{ID: "panelInside", Label: "Panel inside"},
		},
		Sections: []domain.Section{
			{ID: "general", Title: "General", Slots: []domain.Slot{{ID: "overview"}}, NoteKey: "general"},
		},
		Shape: domain.Shape{Containers: []domain.Container{
			{Key: "rated", Fields: []domain.FieldSpec{
				{Key: "model"},
				{Key: "voltage", Type: domain.FieldNumber},
				{Key: "powerFactor", Type: domain.FieldNumber, Default: 0.9},
				{Key: "inverter", Type: domain.FieldBool},
			}},
			{Key: "measured", Fields: []domain.FieldSpec{
				{Key: "width"},
				{Key: "velocity", Type: domain.FieldList, Arity: SampleArity},
			}},
		}},
		Migrations: []domain.Migration{
			{Version: 1, Rules: []domain.RenameRule{
				{From: "namePlate", To: "nameplate"},
				{From: "panel", FanOut: []string{"panelFront", "panelInside"}},
			}},
		},
	}
}

func hotelSchema() *domain.Schema {
	return &domain.Schema{
		Key:    "hotel_noise",
		Label:  "Hotel noise",
		Mode:   domain.ModeCalc,
		Photos: []domain.Slot{{ID: "site", Label: "Site"}},
		Unit: &domain.UnitTemplate{
			Fields:     []domain.FieldSpec{{Key: "noiseDb"}, {Key: "window"}},
			PhotoSlots: []domain.Slot{{ID: "meter", Label: "Meter"}},
			Kinds:      []domain.Kind{{Key: domain.KindRoom, Label: "Room"}, {Key: domain.KindClassroom, Label: "Classroom"}},
		},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestNormalise_EmptyDocumentIsComplete(t *testing.T) {
	doc := Normalise(fanSchema(), map[string]any{})

	for _, id := range fanSchema().PhotoIDs() {
		slot, ok := doc.PhotoSlots[id]
		require.True(t, ok, id)
		assert.NotNil(t, slot)
		assert.Empty(t, slot)
	}
	assert.Equal(t, map[string]string{"general": ""}, doc.Notes)
	assert.Equal(t, map[string]string{"belt tension": "", "vibration": ""}, doc.Checklist)
	assert.Equal(t, map[string]any{
		"model":       "",
		"voltage":     0.0,
		"powerFactor": 0.9,
		"inverter":    false,
	}, doc.Containers["rated"])
	assert.Equal(t, []string{"", "", "", "", "", ""}, doc.Containers["measured"]["velocity"])
	assert.Nil(t, doc.Config)
	assert.Nil(t, doc.Units)
}

func TestNormalise_NilInput(t *testing.T) {
	doc := Normalise(fanSchema(), nil)
	assert.Len(t, doc.PhotoSlots, 4)
	assert.NotNil(t, doc.Extra)
}

func TestNormalise_NestedMergeKeepsSiblings(t *testing.T) {
	raw := map[string]any{
		"rated": map[string]any{
			"voltage":   "380",
			"legacyTag": "A-7",
		},
		"measured": map[string]any{
			"velocity": []any{"1", 2.5, nil},
		},
		"notes":    map[string]any{"general": "ok", "extra": "kept"},
		"building": "HQ",
	}

	doc := Normalise(fanSchema(), raw)

	assert.Equal(t, 380.0, doc.Containers["rated"]["voltage"])
	assert.Equal(t, "", doc.Containers["rated"]["model"])
	assert.Equal(t, "A-7", doc.Containers["rated"]["legacyTag"])
	assert.Equal(t, []string{"1", "2.5", "", "", "", ""}, doc.Containers["measured"]["velocity"])
	assert.Equal(t, map[string]string{"general": "ok", "extra": "kept"}, doc.Notes)
	assert.Equal(t, "HQ", doc.Extra["building"])
}

func TestNormalise_MalformedValuesDegradeToDefaults(t *testing.T) {
	raw := map[string]any{
		"rated":      "not a map",
		"measured":   map[string]any{"velocity": "12", "width": map[string]any{}},
		"checklist":  []any{"x"},
		"photoSlots": []any{"data:x"},
	}

	doc := Normalise(fanSchema(), raw)

	assert.Equal(t, 0.0, doc.Containers["rated"]["voltage"])
	assert.Equal(t, []string{"", "", "", "", "", ""}, doc.Containers["measured"]["velocity"])
	assert.Equal(t, "", doc.Containers["measured"]["width"])
	assert.Equal(t, "", doc.Checklist["belt tension"])
	assert.Empty(t, doc.PhotoSlots["overview"])
}

func TestNormalise_DoesNotMutateInput(t *testing.T) {
	rated := map[string]any{"voltage": "380"}
	raw := map[string]any{"rated": rated, "photoSlots": map[string]any{"namePlate": "data:a"}}

	_ = Normalise(fanSchema(), raw)

	assert.Equal(t, map[string]any{"voltage": "380"}, rated)
	assert.Equal(t, map[string]any{"namePlate": "data:a"}, raw["photoSlots"])
}

func TestNormalise_PhotoCoercion(t *testing.T) {
	fileLike := map[string]any{"dataUrl": "data:image/jpeg;base64,/9j", "name": "site.jpg"}

	doc := Normalise(fanSchema(), map[string]any{
		"photoSlots": map[string]any{
			"overview":  fileLike,
			"nameplate": nil,
		},
	})

	assert.Equal(t, []domain.PhotoRef{{DataURL: "data:image/jpeg;base64,/9j", Name: "site.jpg"}}, doc.PhotoSlots["overview"])
	assert.Equal(t, []domain.PhotoRef{}, doc.PhotoSlots["nameplate"])
}

func TestNormalise_WrapsUnreadFileObject(t *testing.T) {
	raw := map[string]any{
		"photoSlots": map[string]any{
			"overview": map[string]any{"name": "site.jpg", "size": 1234.0, "type": "image/jpeg"},
		},
	}

	doc := Normalise(fanSchema(), raw)

	require.Len(t, doc.PhotoSlots["overview"], 1)
	ref := doc.PhotoSlots["overview"][0]
	assert.Equal(t, "site.jpg", ref.Name)
	assert.Empty(t, ref.DataURL)
	assert.Equal(t, map[string]any{"size": 1234.0, "type": "image/jpeg"}, ref.Meta)

	again := Normalise(fanSchema(), doc.Raw())
	assert.Equal(t, doc.PhotoSlots, again.PhotoSlots)
}

func TestNormalise_MigratesLegacyPhotoKeys(t *testing.T) {
	doc := Normalise(fanSchema(), map[string]any{
		"photoSlots": map[string]any{
			"namePlate": []any{"data:a"},
			"nameplate": []any{"data:b"},
			"panel":     "data:c",
		},
	})

	assert.Equal(t, []domain.PhotoRef{{DataURL: "data:b"}, {DataURL: "data:a"}}, doc.PhotoSlots["nameplate"])
	assert.Equal(t, []domain.PhotoRef{{DataURL: "data:c"}}, doc.PhotoSlots["panelFront"])
	assert.Equal(t, []domain.PhotoRef{{DataURL: "data:c"}}, doc.PhotoSlots["panelInside"])
	assert.NotContains(t, doc.PhotoSlots, "namePlate")
	assert.NotContains(t, doc.PhotoSlots, "panel")
}

func TestNormalise_Units(t *testing.T) {
	n := New(WithIDGenerator(sequentialIDs()))
	raw := map[string]any{
		"config": map[string]any{
			"roomCount": "2",
			"numbering": map[string]any{"mode": "bogus", "start": "", "step": 2.0},
		},
		"units": []any{
			map[string]any{"id": "keep", "kind": "room", "no": 101.0, "fields": map[string]any{"noiseDb": "40"}},
			map[string]any{"no": "102", "photoSlots": map[string]any{"meter": "data:m"}},
			map[string]any{"id": "keep", "kind": "room", "no": "103"},
			"garbage",
		},
	}

	doc := n.Normalise(hotelSchema(), raw)

	require.NotNil(t, doc.Config)
	assert.Equal(t, 2, doc.Config.RoomCount)
	assert.Equal(t, domain.NumberingRange, doc.Config.Numbering.Mode)
	assert.Equal(t, domain.DefaultNumberingStart, doc.Config.Numbering.Start)
	assert.Equal(t, 2, doc.Config.Numbering.Step)

	require.Len(t, doc.Units, 3)
	assert.Equal(t, "keep", doc.Units[0].ID)
	assert.Equal(t, "101", doc.Units[0].No)
	assert.Equal(t, map[string]any{"noiseDb": "40", "window": ""}, doc.Units[0].Fields)
	assert.Equal(t, []domain.PhotoRef{}, doc.Units[0].PhotoSlots["meter"])

	assert.Equal(t, "id-1", doc.Units[1].ID)
	assert.Equal(t, domain.KindRoom, doc.Units[1].Kind)
	assert.Equal(t, []domain.PhotoRef{{DataURL: "data:m"}}, doc.Units[1].PhotoSlots["meter"])

	assert.Equal(t, "id-2", doc.Units[2].ID, "duplicate ids are replaced")
}

func TestNormaliseConfig_ClampsCounts(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"negative", -4.0, 0},
		{"exponent string", "1e18", domain.MaxUnits},
		{"huge float", 1e300, domain.MaxUnits},
		{"at cap", float64(domain.MaxUnits), domain.MaxUnits},
		{"below cap", "12", 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NormaliseConfig(map[string]any{"roomCount": tt.in, "classroomCount": tt.in})
			assert.Equal(t, tt.want, cfg.RoomCount)
			assert.Equal(t, tt.want, cfg.ClassroomCount)
		})
	}
}

func TestNormalise_UnitKeysPassThroughWithoutTemplate(t *testing.T) {
	doc := Normalise(fanSchema(), map[string]any{"units": []any{"x"}})

	assert.Nil(t, doc.Units)
	assert.Equal(t, []any{"x"}, doc.Extra["units"])
}

func TestNormalise_Idempotent(t *testing.T) {
	inputs := []map[string]any{
		{},
		{"rated": map[string]any{"voltage": 380, "model": 7.0, "x": []string{"a"}}},
		{"measured": map[string]any{"velocity": []any{"1", "2", "3", "4", "5", "6", "7"}}},
		{"photoSlots": map[string]any{"panel": map[string]any{"length": 1.0, "0": "data:z"}}},
		{"checklist": map[string]any{"vibration": "ok", "custom": 3.0}, "meta": map[string]any{"rev": 2}},
	}
	for i, raw := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			once := Normalise(fanSchema(), raw)
			twice := Normalise(fanSchema(), once.Raw())
			assert.Equal(t, once, twice)
		})
	}

	n := New(WithIDGenerator(sequentialIDs()))
	raw := map[string]any{
		"config": map[string]any{"roomCount": 1.0, "hasClassroom": "true"},
		"units":  []any{map[string]any{"kind": "classroom", "no": "1"}},
	}
	once := n.Normalise(hotelSchema(), raw)
	twice := n.Normalise(hotelSchema(), once.Raw())
	assert.Equal(t, once, twice)
}

func TestNormalise_NilSchema(t *testing.T) {
	doc := Normalise(nil, map[string]any{"a": "b"})
	assert.Equal(t, "b", doc.Extra["a"])
	assert.Empty(t, doc.PhotoSlots)
}

func TestEnsure6(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "", "", "", ""}, Ensure6([]string{"1", "2"}))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, Ensure6([]string{"1", "2", "3", "4", "5", "6", "7"}))
	assert.Equal(t, []string{"", "", "", "", "", ""}, Ensure6(nil))
	assert.Empty(t, EnsureArity([]string{"a"}, -1))
}

func TestCoerce(t *testing.T) {
	num := domain.FieldSpec{Key: "n", Type: domain.FieldNumber}
	txt := domain.FieldSpec{Key: "t"}
	flag := domain.FieldSpec{Key: "b", Type: domain.FieldBool}

	tests := []struct {
		name string
		spec domain.FieldSpec
		in   any
		want any
	}{
		{"number from string", num, " 4.5 ", 4.5},
		{"number from int", num, 3, 3.0},
		{"number from garbage", num, "abc", 0.0},
		{"number from blank", num, "", 0.0},
		{"text from number", txt, 12.5, "12.5"},
		{"text from bool", txt, true, ""},
		{"text default", domain.FieldSpec{Key: "t", Default: "n/a"}, nil, "n/a"},
		{"bool from string", flag, "true", true},
		{"bool from garbage", flag, "maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.spec, tt.in))
		})
	}
}
