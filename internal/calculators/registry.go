package calculators

import (
	"fmt"
	"sort"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// Options tunes how inputs are read.
type Options struct {
	// StripGroupingDots enables grouping dot removal in energy figures.
	StripGroupingDots bool
}

// DefaultOptions returns the options matching stored report data.
func DefaultOptions() Options {
	return Options{StripGroupingDots: true}
}

// Inputs resolves a derived field's named arguments against a document.
type Inputs struct {
	doc   domain.Document
	paths map[string]string
	opts  Options
}

// Get returns the raw value bound to name, nil when unbound or missing.
func (in Inputs) Get(name string) any {
	path, ok := in.paths[name]
	if !ok {
		return nil
	}
	v, ok := in.doc.Get(path)
	if !ok {
		return nil
	}
	return v
}

// List returns the list value bound to name.
func (in Inputs) List(name string) []any {
	switch t := in.Get(name).(type) {
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		return t
	default:
		return nil
	}
}

// Options returns the calculation options.
func (in Inputs) Options() Options {
	return in.opts
}

// Func computes one derived value.
type Func func(in Inputs) Value

// Registry maps calculator names to their functions.
type Registry struct {
	funcs map[string]Func
	opts  Options
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		funcs: make(map[string]Func),
		opts:  opts,
	}
}

// NewDefaultRegistry creates a registry holding every built-in calculator.
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry(opts)
	RegisterDefaults(r)
	return r
}

// Register adds a calculator. A later registration under the same name replaces it.
func (r *Registry) Register(name string, f Func) {
	r.funcs[name] = f
}

// Has returns true if a calculator with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Names returns all registered calculator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate runs the named calculator with inputs bound to document paths.
func (r *Registry) Evaluate(name string, doc domain.Document, paths map[string]string) (Value, error) {
	f, ok := r.funcs[name]
	if !ok {
		return Undefined, fmt.Errorf("unknown calculator: %s", name)
	}
	return f(Inputs{doc: doc, paths: paths, opts: r.opts}), nil
}

// Check returns an error naming the first derived field of schema whose
// calculator is not registered.
func (r *Registry) Check(schema *domain.Schema) error {
	for _, d := range schema.Derived {
		if !r.Has(d.Calc) {
			return fmt.Errorf("%w: %s: derived field %q uses unknown calculator %q",
				domain.ErrInvalidSchema, schema.Key, d.Key, d.Calc)
		}
	}
	return nil
}

// Derive computes every derived field of schema for doc, in declaration
// order. Fields with an unknown calculator are undefined.
func (r *Registry) Derive(schema *domain.Schema, doc domain.Document) []domain.DerivedValue {
	if schema == nil {
		return nil
	}
	out := make([]domain.DerivedValue, 0, len(schema.Derived))
	for _, d := range schema.Derived {
		v, err := r.Evaluate(d.Calc, doc, d.Inputs)
		if err != nil {
			v = Undefined
		}
		out = append(out, domain.DerivedValue{
			Key:   d.Key,
			Label: d.Label,
			Unit:  d.Unit,
			Value: v.Float,
			OK:    v.OK,
			Text:  v.Format(d.Decimals),
		})
	}
	return out
}
