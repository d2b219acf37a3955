package domain

import (
	"fmt"
	"strings"
)

// Mode selects how a form renders an equipment type.
type Mode string

const (
	// ModeCalc forms carry measured fields and derived values.
	ModeCalc Mode = "calc"

	// ModePhotoOnly forms only collect checklist answers and photos.
	ModePhotoOnly Mode = "photoOnly"
)

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	return m == ModeCalc || m == ModePhotoOnly
}

// FieldType identifies the value type a document field is coerced to.
type FieldType string

const (
	// FieldText is a free-form string, default "".
	FieldText FieldType = "text"

	// FieldNumber is a float64, default 0.
	FieldNumber FieldType = "number"

	// FieldBool is a boolean, default false.
	FieldBool FieldType = "bool"

	// FieldList is a fixed-arity list of strings, missing entries "".
	FieldList FieldType = "list"
)

// Unit kinds known to the synchronizer.
const (
	KindRoom      = "room"
	KindClassroom = "classroom"
)

// Slot is a named photo bucket.
type Slot struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Section groups photo slots for display. NoteKey, when set, names a
// free-text note stored under Document.Notes.
type Section struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	Slots   []Slot `yaml:"slots" json:"slots"`
	NoteKey string `yaml:"noteKey,omitempty" json:"noteKey,omitempty"`
}

// Kind labels a repeating unit kind (room, classroom, ...).
type Kind struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

// FieldSpec describes one field inside a container or unit.
type FieldSpec struct {
	Key   string    `yaml:"key" json:"key"`
	Label string    `yaml:"label,omitempty" json:"label,omitempty"`
	Type  FieldType `yaml:"type,omitempty" json:"type,omitempty"`

	// Arity is the fixed length of a list field.
	Arity int `yaml:"arity,omitempty" json:"arity,omitempty"`

	// Default overrides the type default for text and number fields.
	Default any `yaml:"default,omitempty" json:"default,omitempty"`
}

// EffectiveType returns the declared type, text when unset.
func (f FieldSpec) EffectiveType() FieldType {
	if f.Type == "" {
		return FieldText
	}
	return f.Type
}

// Container is a nested object of the document such as rated or measured.
type Container struct {
	Key    string      `yaml:"key" json:"key"`
	Fields []FieldSpec `yaml:"fields" json:"fields"`
}

// Shape declares the containers every document of a schema carries.
type Shape struct {
	Containers []Container `yaml:"containers" json:"containers"`
}

// UnitTemplate describes one repeating sub-record.
type UnitTemplate struct {
	Fields     []FieldSpec `yaml:"fields" json:"fields"`
	PhotoSlots []Slot      `yaml:"photoSlots" json:"photoSlots"`
	Kinds      []Kind      `yaml:"kinds" json:"kinds"`
}

// KindLabel returns the display label for a kind key.
func (t *UnitTemplate) KindLabel(key string) string {
	for _, k := range t.Kinds {
		if k.Key == key {
			return k.Label
		}
	}
	return key
}

// RenameRule moves photos from a legacy slot key into its current name.
// When FanOut is set the rule instead copies the first legacy photo into
// every FanOut target, provided all of them are empty. Legacy photos that
// are not fanned out land in the first FanOut target.
type RenameRule struct {
	From   string   `yaml:"from" json:"from"`
	To     string   `yaml:"to,omitempty" json:"to,omitempty"`
	FanOut []string `yaml:"fanOut,omitempty" json:"fanOut,omitempty"`
}

// Migration is one versioned batch of rename rules, applied in order.
type Migration struct {
	Version int          `yaml:"version" json:"version"`
	Rules   []RenameRule `yaml:"rules" json:"rules"`
}

// DerivedField binds a read-only computed value to a calculator.
// Inputs maps calculator argument names to document paths.
type DerivedField struct {
	Key    string            `yaml:"key" json:"key"`
	Label  string            `yaml:"label" json:"label"`
	Calc   string            `yaml:"calc" json:"calc"`
	Inputs map[string]string `yaml:"inputs" json:"inputs"`
	Unit   string            `yaml:"unit,omitempty" json:"unit,omitempty"`

	// Decimals is the number of fraction digits shown.
	Decimals int `yaml:"decimals,omitempty" json:"decimals,omitempty"`
}

// Schema is the immutable descriptor of one equipment type.
type Schema struct {
	Key        string         `yaml:"key" json:"key"`
	Label      string         `yaml:"label" json:"label"`
	Order      int            `yaml:"order,omitempty" json:"-"`
	Mode       Mode           `yaml:"mode" json:"mode"`
	Checklist  []string       `yaml:"checklist,omitempty" json:"checklist,omitempty"`
	Photos     []Slot         `yaml:"photos" json:"photos"`
	Sections   []Section      `yaml:"sections,omitempty" json:"sections,omitempty"`
	Unit       *UnitTemplate  `yaml:"unit,omitempty" json:"unit,omitempty"`
	Shape      Shape          `yaml:"shape,omitempty" json:"shape,omitempty"`
	Migrations []Migration    `yaml:"migrations,omitempty" json:"migrations,omitempty"`
	Derived    []DerivedField `yaml:"derived,omitempty" json:"derived,omitempty"`
}

// PhotoIDs returns the flat registry of slot ids in declaration order.
func (s *Schema) PhotoIDs() []string {
	ids := make([]string, 0, len(s.Photos))
	for _, p := range s.Photos {
		ids = append(ids, p.ID)
	}
	return ids
}

// NoteKeys returns the note keys declared by sections, deduplicated.
func (s *Schema) NoteKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, sec := range s.Sections {
		if sec.NoteKey == "" || seen[sec.NoteKey] {
			continue
		}
		seen[sec.NoteKey] = true
		keys = append(keys, sec.NoteKey)
	}
	return keys
}

// Container returns the container with the given key.
func (s *Schema) Container(key string) (Container, bool) {
	for _, c := range s.Shape.Containers {
		if c.Key == key {
			return c, true
		}
	}
	return Container{}, false
}

// Validate checks the structural invariants of the schema.
// Every section slot must also be registered in Photos.
func (s *Schema) Validate() error {
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidSchema)
	}
	if s.Mode != "" && !s.Mode.IsValid() {
		return fmt.Errorf("%w: %s: unknown mode %q", ErrInvalidSchema, s.Key, s.Mode)
	}

	photos := make(map[string]bool, len(s.Photos))
	for _, p := range s.Photos {
		if p.ID == "" {
			return fmt.Errorf("%w: %s: photo slot without id", ErrInvalidSchema, s.Key)
		}
		if photos[p.ID] {
			return fmt.Errorf("%w: %s: duplicate photo slot %q", ErrInvalidSchema, s.Key, p.ID)
		}
		photos[p.ID] = true
	}
	for _, sec := range s.Sections {
		for _, slot := range sec.Slots {
			if !photos[slot.ID] {
				return fmt.Errorf("%w: %s: section %q references unregistered slot %q",
					ErrInvalidSchema, s.Key, sec.ID, slot.ID)
			}
		}
	}

	reserved := map[string]bool{
		KeyChecklist: true, KeyNotes: true, KeyPhotoSlots: true, KeyUnits: true, KeyConfig: true,
	}
	for _, c := range s.Shape.Containers {
		if reserved[c.Key] {
			return fmt.Errorf("%w: %s: container %q uses a reserved key", ErrInvalidSchema, s.Key, c.Key)
		}
		if err := validateFields(s.Key, c.Fields); err != nil {
			return err
		}
	}

	if s.Unit != nil {
		if len(s.Unit.Kinds) == 0 {
			return fmt.Errorf("%w: %s: unit template without kinds", ErrInvalidSchema, s.Key)
		}
		if err := validateFields(s.Key, s.Unit.Fields); err != nil {
			return err
		}
	}
	return nil
}

func validateFields(schemaKey string, fields []FieldSpec) error {
	for _, f := range fields {
		switch f.EffectiveType() {
		case FieldText, FieldNumber, FieldBool:
		case FieldList:
			if f.Arity <= 0 {
				return fmt.Errorf("%w: %s: list field %q needs a positive arity", ErrInvalidSchema, schemaKey, f.Key)
			}
		default:
			return fmt.Errorf("%w: %s: field %q has unknown type %q", ErrInvalidSchema, schemaKey, f.Key, f.Type)
		}
	}
	return nil
}

// DerivedValue is one computed, read-only value of a document.
// OK is false when the calculation is undefined; Text is then "".
type DerivedValue struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Unit  string  `json:"unit,omitempty"`
	Value float64 `json:"value"`
	OK    bool    `json:"ok"`
	Text  string  `json:"text"`
}
