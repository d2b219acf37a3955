package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNotStructural = errors.New("value is not a JSON-like tree")

// CloneFunc copies a value or reports that it cannot.
type CloneFunc func(v any) (any, error)

// Cloner copies arbitrary document values through a fallback chain:
// structural copy, then JSON round trip, then shallow copy. A stage that
// fails or panics hands over to the next one; the last stage cannot fail.
type Cloner struct {
	Structural CloneFunc
	JSON       CloneFunc
	Shallow    func(v any) any
}

// DefaultCloner returns the cloner used by DeepClone.
func DefaultCloner() *Cloner {
	return &Cloner{
		Structural: StructuralClone,
		JSON:       JSONClone,
		Shallow:    ShallowClone,
	}
}

var defaultCloner = DefaultCloner()

// DeepClone copies v through the default fallback chain. It never panics.
func DeepClone(v any) any {
	return defaultCloner.Clone(v)
}

// Clone copies v through the fallback chain.
func (c *Cloner) Clone(v any) any {
	for _, stage := range []CloneFunc{c.Structural, c.JSON} {
		if stage == nil {
			continue
		}
		if out, err := guard(stage, v); err == nil {
			return out
		}
	}
	if c.Shallow == nil {
		return v
	}
	out, err := guard(func(v any) (any, error) { return c.Shallow(v), nil }, v)
	if err != nil {
		return v
	}
	return out
}

func guard(stage CloneFunc, v any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("clone panicked: %v", r)
		}
	}()
	return stage(v)
}

// StructuralClone copies JSON-like trees: maps, []any, []string, strings,
// float64, bool and nil. Anything else is rejected.
func StructuralClone(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, float64, bool:
		return t, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			c, err := StructuralClone(item)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			c, err := StructuralClone(item)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", errNotStructural, v)
	}
}

// JSONClone copies v by marshalling and unmarshalling it.
func JSONClone(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ShallowClone copies the top level of maps and slices and returns any
// other value unchanged.
func ShallowClone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = item
		}
		return out
	case []any:
		out := make([]any, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}
