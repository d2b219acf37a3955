package document

import (
	"math"
	"strconv"
	"strings"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// SampleArity is the number of points in a repeated field measurement.
const SampleArity = 6

// EnsureArity pads with "" or truncates list to exactly n entries,
// preserving order.
func EnsureArity(list []string, n int) []string {
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	copy(out, list)
	return out
}

// Ensure6 forces a six-point sample list.
func Ensure6(list []string) []string {
	return EnsureArity(list, SampleArity)
}

// Coerce converts v to the field's type. Missing, nil and unconvertible
// values become the field default.
func Coerce(f domain.FieldSpec, v any) any {
	switch f.EffectiveType() {
	case domain.FieldNumber:
		if n, ok := number(v); ok {
			return n
		}
		if n, ok := number(f.Default); ok {
			return n
		}
		return 0.0
	case domain.FieldBool:
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
				return parsed
			}
		}
		d, _ := f.Default.(bool)
		return d
	case domain.FieldList:
		return EnsureArity(stringList(v), f.Arity)
	default:
		if s, ok := text(v); ok {
			return s
		}
		if s, ok := text(f.Default); ok {
			return s
		}
		return ""
	}
}

// Default returns the value a missing field is filled with.
func Default(f domain.FieldSpec) any {
	return Coerce(f, nil)
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64, int, int64:
		s := domain.StringValue(t)
		return s, s != ""
	default:
		return "", false
	}
}

func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, len(t))
		for i, item := range t {
			out[i], _ = text(item)
		}
		return out
	default:
		return nil
	}
}
