// Package calculators computes the read-only values shown next to
// equipment forms: duct flow, electrical load, pump efficiency, COP, pipe
// corrosion and energy totals.
//
// Every function is pure. Blank, non-numeric and non-finite inputs count
// as zero; results that cannot be computed (a zero denominator) are
// undefined and render as "".
package calculators

import (
	"math"
	"strconv"
)

// Value is a calculation result. OK is false when the result is undefined.
type Value struct {
	Float float64
	OK    bool
}

// Undefined is the result of a calculation with no meaningful answer.
var Undefined = Value{}

// Defined wraps f. Non-finite values are undefined.
func Defined(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Undefined
	}
	return Value{Float: f, OK: true}
}

// String renders the value with the shortest exact representation, "" when undefined.
func (v Value) String() string {
	if !v.OK {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// Format renders the value rounded to decimals fraction digits, "" when undefined.
func (v Value) Format(decimals int) string {
	if !v.OK {
		return ""
	}
	if decimals < 0 {
		return v.String()
	}
	return strconv.FormatFloat(v.Float, 'f', decimals, 64)
}
