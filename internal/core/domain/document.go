package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reserved top-level document keys. Every other top-level key is either a
// schema container (rated, measured, ...) or an extra passed through as-is.
const (
	KeyChecklist  = "checklist"
	KeyNotes      = "notes"
	KeyPhotoSlots = "photoSlots"
	KeyUnits      = "units"
	KeyConfig     = "config"
)

// Document is the canonical, schema-complete form of one equipment
// inspection. It is produced by the document normaliser and is the only
// shape handed to sinks and stores.
type Document struct {
	// Containers holds nested field objects keyed by container name.
	// Values are string, float64, bool or []string.
	Containers map[string]map[string]any

	// Checklist maps checklist item to its answer.
	Checklist map[string]string

	// Notes maps section note keys to free text.
	Notes map[string]string

	// PhotoSlots maps every schema slot id to its photos.
	PhotoSlots map[string][]PhotoRef

	// Units holds repeating sub-records in display order.
	Units []Unit

	// Config sizes Units. Nil for schemas without a unit template.
	Config *UnitConfig

	// Extra carries unknown top-level keys through untouched.
	Extra map[string]any
}

// NewDocument returns an empty document with all maps allocated.
func NewDocument() Document {
	return Document{
		Containers: make(map[string]map[string]any),
		Checklist:  make(map[string]string),
		Notes:      make(map[string]string),
		PhotoSlots: make(map[string][]PhotoRef),
		Extra:      make(map[string]any),
	}
}

// Raw renders the document as the JSON-like tree it is persisted as.
func (d Document) Raw() map[string]any {
	out := make(map[string]any, len(d.Extra)+len(d.Containers)+5)
	for k, v := range d.Extra {
		out[k] = CloneValue(v)
	}
	for k, fields := range d.Containers {
		out[k] = rawFields(fields)
	}

	checklist := make(map[string]any, len(d.Checklist))
	for k, v := range d.Checklist {
		checklist[k] = v
	}
	out[KeyChecklist] = checklist

	notes := make(map[string]any, len(d.Notes))
	for k, v := range d.Notes {
		notes[k] = v
	}
	out[KeyNotes] = notes

	out[KeyPhotoSlots] = rawPhotoSlots(d.PhotoSlots)

	if d.Config != nil {
		units := make([]any, 0, len(d.Units))
		for _, u := range d.Units {
			units = append(units, u.Raw())
		}
		out[KeyUnits] = units
		out[KeyConfig] = d.Config.Raw()
	}
	return out
}

// MarshalJSON encodes the raw tree.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw())
}

// Clone deep copies the document.
func (d Document) Clone() Document {
	c := NewDocument()
	for k, fields := range d.Containers {
		c.Containers[k] = cloneFields(fields)
	}
	for k, v := range d.Checklist {
		c.Checklist[k] = v
	}
	for k, v := range d.Notes {
		c.Notes[k] = v
	}
	c.PhotoSlots = ClonePhotoSlots(d.PhotoSlots)
	if d.Units != nil {
		c.Units = make([]Unit, len(d.Units))
		for i, u := range d.Units {
			c.Units[i] = u.Clone()
		}
	}
	if d.Config != nil {
		cfg := *d.Config
		c.Config = &cfg
	}
	for k, v := range d.Extra {
		c.Extra[k] = CloneValue(v)
	}
	return c
}

// UnitIndex returns the position of the unit with the given id, or -1.
func (d Document) UnitIndex(id string) int {
	for i := range d.Units {
		if d.Units[i].ID == id {
			return i
		}
	}
	return -1
}

// Get reads the value addressed by path. See Set for the path grammar.
func (d Document) Get(path string) (any, bool) {
	head, rest, ok := strings.Cut(path, ".")
	if !ok || rest == "" {
		return nil, false
	}
	switch head {
	case KeyChecklist:
		v, ok := d.Checklist[rest]
		return v, ok
	case KeyNotes:
		v, ok := d.Notes[rest]
		return v, ok
	case KeyPhotoSlots:
		v, ok := d.PhotoSlots[rest]
		return v, ok
	case KeyConfig:
		if d.Config == nil {
			return nil, false
		}
		return d.Config.get(rest)
	case KeyUnits:
		id, field, ok := strings.Cut(rest, ".")
		if !ok {
			return nil, false
		}
		i := d.UnitIndex(id)
		if i < 0 {
			return nil, false
		}
		return d.Units[i].get(field)
	}

	fields, ok := d.Containers[head]
	if !ok {
		return nil, false
	}
	key, index, hasIndex := strings.Cut(rest, ".")
	v, ok := fields[key]
	if !ok || !hasIndex {
		return v, ok
	}
	list, isList := v.([]string)
	i, err := strconv.Atoi(index)
	if !isList || err != nil || i < 0 || i >= len(list) {
		return nil, false
	}
	return list[i], true
}

// Set writes value at path. Paths are:
//
//	<container>.<field>           rated.voltage
//	<container>.<field>.<index>   measured.velocity.3 (list fields)
//	checklist.<item>
//	notes.<key>
//	config.<field>                config.roomCount, config.numbering.mode
//	units.<id>.no
//	units.<id>.fields.<key>
//
// Photo slots are written with SetPhotos.
func (d *Document) Set(path string, value any) error {
	head, rest, ok := strings.Cut(path, ".")
	if !ok || rest == "" {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	switch head {
	case KeyChecklist:
		if d.Checklist == nil {
			d.Checklist = make(map[string]string)
		}
		d.Checklist[rest] = StringValue(value)
		return nil
	case KeyNotes:
		if d.Notes == nil {
			d.Notes = make(map[string]string)
		}
		d.Notes[rest] = StringValue(value)
		return nil
	case KeyPhotoSlots:
		return fmt.Errorf("%w: %q: use SetPhotos", ErrInvalidPath, path)
	case KeyConfig:
		if d.Config == nil {
			return fmt.Errorf("%w: %q: document has no unit config", ErrInvalidPath, path)
		}
		if !d.Config.set(rest, value) {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
		return nil
	case KeyUnits:
		id, field, ok := strings.Cut(rest, ".")
		i := d.UnitIndex(id)
		if !ok || i < 0 || !d.Units[i].set(field, value) {
			return fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
		return nil
	}

	fields, ok := d.Containers[head]
	if !ok {
		return fmt.Errorf("%w: %q: unknown container", ErrInvalidPath, path)
	}
	key, index, hasIndex := strings.Cut(rest, ".")
	if !hasIndex {
		fields[key] = value
		return nil
	}
	list, isList := fields[key].([]string)
	i, err := strconv.Atoi(index)
	if !isList || err != nil || i < 0 || i >= len(list) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	updated := make([]string, len(list))
	copy(updated, list)
	updated[i] = StringValue(value)
	fields[key] = updated
	return nil
}

// SetPhotos replaces the photos of a slot.
func (d *Document) SetPhotos(slot string, refs []PhotoRef) {
	if d.PhotoSlots == nil {
		d.PhotoSlots = make(map[string][]PhotoRef)
	}
	out := make([]PhotoRef, 0, len(refs))
	for _, r := range refs {
		if !r.IsZero() {
			out = append(out, r)
		}
	}
	d.PhotoSlots[slot] = out
}

func (c *UnitConfig) get(path string) (any, bool) {
	switch path {
	case "roomCount":
		return c.RoomCount, true
	case "hasClassroom":
		return c.HasClassroom, true
	case "classroomCount":
		return c.ClassroomCount, true
	case "numbering.mode":
		return string(c.Numbering.Mode), true
	case "numbering.start":
		return c.Numbering.Start, true
	case "numbering.step":
		return c.Numbering.Step, true
	case "numbering.manualListText":
		return c.Numbering.ManualListText, true
	default:
		return nil, false
	}
}

func (c *UnitConfig) set(path string, value any) bool {
	switch path {
	case "roomCount":
		c.RoomCount = ClampCount(IntValue(value, 0))
	case "hasClassroom":
		c.HasClassroom = BoolValue(value)
	case "classroomCount":
		c.ClassroomCount = ClampCount(IntValue(value, 0))
	case "numbering.mode":
		c.Numbering.Mode = NumberingMode(StringValue(value))
	case "numbering.start":
		c.Numbering.Start = IntValue(value, DefaultNumberingStart)
	case "numbering.step":
		c.Numbering.Step = IntValue(value, DefaultNumberingStep)
	case "numbering.manualListText":
		c.Numbering.ManualListText = StringValue(value)
	default:
		return false
	}
	return true
}

func (u *Unit) get(path string) (any, bool) {
	switch path {
	case "no":
		return u.No, true
	case "kind":
		return u.Kind, true
	}
	key, ok := strings.CutPrefix(path, "fields.")
	if !ok {
		return nil, false
	}
	v, ok := u.Fields[key]
	return v, ok
}

func (u *Unit) set(path string, value any) bool {
	if path == "no" {
		u.No = StringValue(value)
		return true
	}
	key, ok := strings.CutPrefix(path, "fields.")
	if !ok || key == "" {
		return false
	}
	if u.Fields == nil {
		u.Fields = make(map[string]any)
	}
	u.Fields[key] = value
	return true
}

func cloneFields(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = CloneValue(v)
	}
	return out
}

func rawFields(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		if list, ok := v.([]string); ok {
			items := make([]any, len(list))
			for i, s := range list {
				items[i] = s
			}
			out[k] = items
			continue
		}
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies JSON-like values (maps, slices, scalars).
// Values of other types are returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []PhotoRef:
		out := make([]PhotoRef, len(t))
		for i, r := range t {
			out[i] = r.Clone()
		}
		return out
	case PhotoRef:
		return t.Clone()
	default:
		return v
	}
}
