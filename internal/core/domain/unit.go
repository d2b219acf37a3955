package domain

import (
	"math"
	"strconv"
	"strings"
)

// NumberingMode selects how room labels are generated.
type NumberingMode string

const (
	// NumberingRange generates consecutive numbers from Start by Step.
	NumberingRange NumberingMode = "range"

	// NumberingManual parses an explicit comma or newline separated list.
	NumberingManual NumberingMode = "manual"
)

// IsValid returns true if the numbering mode is recognised.
func (m NumberingMode) IsValid() bool {
	return m == NumberingRange || m == NumberingManual
}

// Numbering configures room labels.
type Numbering struct {
	Mode           NumberingMode `json:"mode"`
	Start          int           `json:"start"`
	Step           int           `json:"step"`
	ManualListText string        `json:"manualListText"`
}

// UnitConfig sizes the repeating unit collection of a document.
type UnitConfig struct {
	RoomCount      int       `json:"roomCount"`
	HasClassroom   bool      `json:"hasClassroom"`
	ClassroomCount int       `json:"classroomCount"`
	Numbering      Numbering `json:"numbering"`
}

// MaxUnits caps the number of rooms, and separately of classrooms, a
// configuration may request.
const MaxUnits = 1000

// ClampCount limits a unit count to [0, MaxUnits].
func ClampCount(n int) int {
	return min(max(0, n), MaxUnits)
}

// Default numbering values.
const (
	DefaultNumberingStart = 101
	DefaultNumberingStep  = 1
)

// DefaultUnitConfig returns the configuration of a fresh document.
func DefaultUnitConfig() UnitConfig {
	return UnitConfig{
		Numbering: Numbering{
			Mode:  NumberingRange,
			Start: DefaultNumberingStart,
			Step:  DefaultNumberingStep,
		},
	}
}

// Raw renders the configuration as a JSON-like map.
func (c UnitConfig) Raw() map[string]any {
	return map[string]any{
		"roomCount":      float64(c.RoomCount),
		"hasClassroom":   c.HasClassroom,
		"classroomCount": float64(c.ClassroomCount),
		"numbering": map[string]any{
			"mode":           string(c.Numbering.Mode),
			"start":          float64(c.Numbering.Start),
			"step":           float64(c.Numbering.Step),
			"manualListText": c.Numbering.ManualListText,
		},
	}
}

// Unit is one repeating sub-record, for example one hotel room.
// ID is assigned once and survives reconciliation; Kind and No form the
// natural key matched against the desired identity list.
type Unit struct {
	ID         string                `json:"id"`
	Kind       string                `json:"kind"`
	No         string                `json:"no"`
	Fields     map[string]any        `json:"fields"`
	PhotoSlots map[string][]PhotoRef `json:"photoSlots"`
}

// Clone deep copies the unit.
func (u Unit) Clone() Unit {
	return Unit{
		ID:         u.ID,
		Kind:       u.Kind,
		No:         u.No,
		Fields:     cloneFields(u.Fields),
		PhotoSlots: ClonePhotoSlots(u.PhotoSlots),
	}
}

// Raw renders the unit as a JSON-like map.
func (u Unit) Raw() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"kind":       u.Kind,
		"no":         u.No,
		"fields":     rawFields(u.Fields),
		"photoSlots": rawPhotoSlots(u.PhotoSlots),
	}
}

// IntValue coerces a loosely typed value to an int. Blank, non-numeric and
// non-finite values yield fallback.
func IntValue(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return saturate(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return fallback
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return saturate(f)
		}
		return fallback
	default:
		return fallback
	}
}

// BoolValue coerces a loosely typed value to a bool.
func BoolValue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return false
	}
}

// StringValue renders a loosely typed scalar as a string; nil and
// composite values yield "".
func StringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// saturate converts f to int, pinning values outside the int range to its
// bounds.
func saturate(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(f)
	}
}
