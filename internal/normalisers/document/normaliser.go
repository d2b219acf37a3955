// Package document turns partial, legacy or malformed equipment documents
// into the canonical, schema-complete form.
//
// Normalise never fails and is idempotent:
//
//	Normalise(s, Normalise(s, d).Raw()) == Normalise(s, d)
package document

import (
	"github.com/google/uuid"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/keys"
)

// Normaliser builds canonical documents from raw JSON-like trees.
type Normaliser struct {
	newID  func() string
	cloner *Cloner
}

// Option configures a Normaliser.
type Option func(*Normaliser)

// WithIDGenerator sets the generator used for units that arrive without an id.
func WithIDGenerator(f func() string) Option {
	return func(n *Normaliser) {
		if f != nil {
			n.newID = f
		}
	}
}

// WithCloner sets the cloner used for pass-through values.
func WithCloner(c *Cloner) Option {
	return func(n *Normaliser) {
		if c != nil {
			n.cloner = c
		}
	}
}

// New creates a normaliser. Unit ids default to random UUIDs.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{
		newID:  uuid.NewString,
		cloner: DefaultCloner(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormaliser = New()

// Normalise normalises raw against schema with the default normaliser.
func Normalise(schema *domain.Schema, raw map[string]any) domain.Document {
	return defaultNormaliser.Normalise(schema, raw)
}

// NewID returns a fresh unit id from the configured generator.
func (n *Normaliser) NewID() string {
	return n.newID()
}

// Normalise returns the canonical document for raw. raw is not modified.
// A nil schema yields a document carrying raw's top-level keys as extras.
func (n *Normaliser) Normalise(schema *domain.Schema, raw map[string]any) domain.Document {
	doc := domain.NewDocument()
	if schema == nil {
		for k, v := range raw {
			doc.Extra[k] = n.cloner.Clone(v)
		}
		return doc
	}

	containers := make(map[string]bool, len(schema.Shape.Containers))
	for _, c := range schema.Shape.Containers {
		containers[c.Key] = true
		supplied, _ := raw[c.Key].(map[string]any)
		doc.Containers[c.Key] = n.container(c, supplied)
	}

	doc.Checklist = checklist(schema, raw[domain.KeyChecklist])
	doc.Notes = notes(schema, raw[domain.KeyNotes])
	doc.PhotoSlots = PhotoSlots(schema, raw[domain.KeyPhotoSlots])

	if schema.Unit != nil {
		cfg := NormaliseConfig(raw[domain.KeyConfig])
		doc.Config = &cfg
		doc.Units = n.units(schema.Unit, raw[domain.KeyUnits])
	}

	for k, v := range raw {
		if containers[k] || reserved(k, schema.Unit != nil) {
			continue
		}
		doc.Extra[k] = n.cloner.Clone(v)
	}
	return doc
}

// PhotoSlots coerces a raw slot map, migrates legacy keys and fills every
// schema slot id with at least an empty list.
func PhotoSlots(schema *domain.Schema, raw any) map[string][]domain.PhotoRef {
	slots := keys.MigrateSchema(schema, ParsePhotoSlots(raw))
	if schema == nil {
		return slots
	}
	for _, id := range schema.PhotoIDs() {
		if _, ok := slots[id]; !ok {
			slots[id] = []domain.PhotoRef{}
		}
	}
	return slots
}

func (n *Normaliser) container(c domain.Container, supplied map[string]any) map[string]any {
	fields := make(map[string]any, len(c.Fields)+len(supplied))
	for k, v := range supplied {
		fields[k] = n.cloner.Clone(v)
	}
	for _, f := range c.Fields {
		fields[f.Key] = Coerce(f, supplied[f.Key])
	}
	return fields
}

// Fields coerces a raw field map against specs, keeping unknown keys.
func (n *Normaliser) Fields(specs []domain.FieldSpec, supplied map[string]any) map[string]any {
	return n.container(domain.Container{Fields: specs}, supplied)
}

func checklist(schema *domain.Schema, raw any) map[string]string {
	supplied, _ := raw.(map[string]any)
	out := make(map[string]string, len(schema.Checklist)+len(supplied))
	for k, v := range supplied {
		s, _ := text(v)
		out[k] = s
	}
	for _, item := range schema.Checklist {
		if _, ok := out[item]; !ok {
			out[item] = ""
		}
	}
	return out
}

func notes(schema *domain.Schema, raw any) map[string]string {
	supplied, _ := raw.(map[string]any)
	out := make(map[string]string, len(supplied))
	for k, v := range supplied {
		s, _ := text(v)
		out[k] = s
	}
	for _, key := range schema.NoteKeys() {
		if _, ok := out[key]; !ok {
			out[key] = ""
		}
	}
	return out
}

func reserved(key string, hasUnits bool) bool {
	switch key {
	case domain.KeyChecklist, domain.KeyNotes, domain.KeyPhotoSlots:
		return true
	case domain.KeyUnits, domain.KeyConfig:
		return hasUnits
	default:
		return false
	}
}
