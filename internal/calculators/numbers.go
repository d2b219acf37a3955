package calculators

import (
	"math"
	"strconv"
	"strings"
)

// Number reads a loosely typed input. Blank, unparseable and non-finite
// values are 0.
func Number(v any) float64 {
	f, ok := parse(v)
	if !ok {
		return 0
	}
	return f
}

// IsBlank reports whether v carries no number at all.
func IsBlank(v any) bool {
	_, ok := parse(v)
	return !ok
}

// Average is the mean of the non-blank entries, 0 when all are blank.
func Average(values []any) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if f, ok := parse(v); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// RowMin is the smallest non-blank entry of a reading row.
// Undefined when the row has no readings.
func RowMin(values []any) Value {
	out := Undefined
	for _, v := range values {
		f, ok := parse(v)
		if !ok {
			continue
		}
		if !out.OK || f < out.Float {
			out = Defined(f)
		}
	}
	return out
}

// CleanNumeric removes thousands separators from a numeric string: every
// comma, and when stripGroupingDots is set, every dot followed by exactly
// three digits. "1.234.567" becomes "1234567" while "1.5" is kept. A
// decimal dot followed by three digits ("1.250") is indistinguishable from
// a grouping dot and is stripped too.
func CleanNumeric(s string, stripGroupingDots bool) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if !stripGroupingDots || !strings.Contains(s, ".") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && groupingDot(s, i) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func groupingDot(s string, i int) bool {
	digits := 0
	for j := i + 1; j < len(s) && isDigit(s[j]); j++ {
		digits++
	}
	return digits == 3
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// AnnualSum adds the first twelve monthly entries after CleanNumeric.
// Blank and non-numeric months count as 0.
func AnnualSum(months []any, stripGroupingDots bool) float64 {
	var sum float64
	for i, m := range months {
		if i == 12 {
			break
		}
		switch t := m.(type) {
		case string:
			sum += Number(CleanNumeric(t, stripGroupingDots))
		default:
			sum += Number(t)
		}
	}
	return sum
}

func parse(v any) (float64, bool) {
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
