package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() Schema {
	return Schema{
		Key:    "fan",
		Label:  "Fan",
		Mode:   ModeCalc,
		Photos: []Slot{{ID: "nameplate", Label: "Nameplate"}, {ID: "overview", Label: "Overview"}},
		Sections: []Section{
			{ID: "general", Title: "General", Slots: []Slot{{ID: "overview"}}, NoteKey: "general"},
			{ID: "plate", Title: "Plate", Slots: []Slot{{ID: "nameplate"}}, NoteKey: "general"},
		},
		Shape: Shape{Containers: []Container{
			{Key: "rated", Fields: []FieldSpec{{Key: "voltage", Type: FieldNumber}}},
			{Key: "measured", Fields: []FieldSpec{{Key: "velocity", Type: FieldList, Arity: 6}}},
		}},
	}
}

func TestSchema_Validate(t *testing.T) {
	s := validSchema()
	require.NoError(t, s.Validate())

	tests := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"missing key", func(s *Schema) { s.Key = " " }},
		{"bad mode", func(s *Schema) { s.Mode = "wizard" }},
		{"duplicate photo", func(s *Schema) { s.Photos = append(s.Photos, Slot{ID: "overview"}) }},
		{"empty photo id", func(s *Schema) { s.Photos = append(s.Photos, Slot{}) }},
		{"unregistered section slot", func(s *Schema) {
			s.Sections[0].Slots = append(s.Sections[0].Slots, Slot{ID: "ghost"})
		}},
		{"reserved container", func(s *Schema) {
			s.Shape.Containers = append(s.Shape.Containers, Container{Key: KeyNotes})
		}},
		{"list without arity", func(s *Schema) { s.Shape.Containers[1].Fields[0].Arity = 0 }},
		{"unknown field type", func(s *Schema) { s.Shape.Containers[0].Fields[0].Type = "date" }},
		{"unit without kinds", func(s *Schema) { s.Unit = &UnitTemplate{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidSchema)
		})
	}
}

func TestSchema_Accessors(t *testing.T) {
	s := validSchema()

	assert.Equal(t, []string{"nameplate", "overview"}, s.PhotoIDs())
	assert.Equal(t, []string{"general"}, s.NoteKeys())

	c, ok := s.Container("rated")
	require.True(t, ok)
	assert.Equal(t, "voltage", c.Fields[0].Key)
	_, ok = s.Container("noise")
	assert.False(t, ok)

	assert.Equal(t, FieldText, FieldSpec{Key: "model"}.EffectiveType())

	tpl := UnitTemplate{Kinds: []Kind{{Key: KindRoom, Label: "Room"}}}
	assert.Equal(t, "Room", tpl.KindLabel(KindRoom))
	assert.Equal(t, "hall", tpl.KindLabel("hall"))
}
