package document

import (
	"strings"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// NormaliseConfig coerces a raw unit configuration. Counts are clamped to
// [0, domain.MaxUnits], unknown numbering modes fall back to range and blank numbers take
// their defaults.
func NormaliseConfig(raw any) domain.UnitConfig {
	cfg := domain.DefaultUnitConfig()
	m, ok := raw.(map[string]any)
	if !ok {
		return cfg
	}

	cfg.RoomCount = domain.ClampCount(domain.IntValue(m["roomCount"], 0))
	cfg.HasClassroom = domain.BoolValue(m["hasClassroom"])
	cfg.ClassroomCount = domain.ClampCount(domain.IntValue(m["classroomCount"], 0))

	if num, ok := m["numbering"].(map[string]any); ok {
		mode := domain.NumberingMode(domain.StringValue(num["mode"]))
		if mode.IsValid() {
			cfg.Numbering.Mode = mode
		}
		cfg.Numbering.Start = domain.IntValue(num["start"], domain.DefaultNumberingStart)
		cfg.Numbering.Step = domain.IntValue(num["step"], domain.DefaultNumberingStep)
		cfg.Numbering.ManualListText = domain.StringValue(num["manualListText"])
	}
	return cfg
}

// NewUnit creates a blank unit seeded from the template.
func NewUnit(tpl *domain.UnitTemplate, id, kind, no string) domain.Unit {
	u := domain.Unit{
		ID:         id,
		Kind:       kind,
		No:         no,
		Fields:     make(map[string]any, len(tpl.Fields)),
		PhotoSlots: make(map[string][]domain.PhotoRef, len(tpl.PhotoSlots)),
	}
	for _, f := range tpl.Fields {
		u.Fields[f.Key] = Default(f)
	}
	for _, slot := range tpl.PhotoSlots {
		u.PhotoSlots[slot.ID] = []domain.PhotoRef{}
	}
	return u
}

// Unit completes a typed unit against the template: missing fields and
// slots are added, present fields are coerced to their types.
func (n *Normaliser) Unit(tpl *domain.UnitTemplate, u domain.Unit) domain.Unit {
	out := NewUnit(tpl, u.ID, u.Kind, u.No)
	if out.ID == "" {
		out.ID = n.newID()
	}
	if out.Kind == "" && len(tpl.Kinds) > 0 {
		out.Kind = tpl.Kinds[0].Key
	}
	out.Fields = n.Fields(tpl.Fields, u.Fields)
	for slot, refs := range u.PhotoSlots {
		out.PhotoSlots[slot] = domain.ManyPhotos(refs).Refs()
	}
	return out
}

func (n *Normaliser) units(tpl *domain.UnitTemplate, raw any) []domain.Unit {
	list, _ := raw.([]any)
	out := make([]domain.Unit, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		u := n.rawUnit(tpl, m)
		if seen[u.ID] {
			u.ID = n.newID()
		}
		seen[u.ID] = true
		out = append(out, u)
	}
	return out
}

func (n *Normaliser) rawUnit(tpl *domain.UnitTemplate, m map[string]any) domain.Unit {
	fields, _ := m["fields"].(map[string]any)
	u := domain.Unit{
		ID:   strings.TrimSpace(domain.StringValue(m["id"])),
		Kind: strings.TrimSpace(domain.StringValue(m["kind"])),
		No:   domain.StringValue(m["no"]),
	}
	out := n.Unit(tpl, u)
	out.Fields = n.Fields(tpl.Fields, fields)
	for slot, refs := range ParsePhotoSlots(m["photoSlots"]) {
		out.PhotoSlots[slot] = refs
	}
	return out
}
