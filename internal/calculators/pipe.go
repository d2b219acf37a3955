package calculators

import "math"

// CorrosionRate is the wall loss in mm/year of one measured row.
// Undefined when the row is empty or the pipe has no service years.
func CorrosionRate(nominalThickness any, readings []any, usedYears any) Value {
	years := Number(usedYears)
	thinnest := RowMin(readings)
	if years <= 0 || !thinnest.OK {
		return Undefined
	}
	return Defined((Number(nominalThickness) - thinnest.Float) / years)
}

// RemainingLife is the years left before the row's thinnest reading
// reaches the allowed minimum. 0 when the pipe is not corroding.
func RemainingLife(nominalThickness any, readings []any, usedYears, allowedMinThickness any) Value {
	rate := CorrosionRate(nominalThickness, readings, usedYears)
	if !rate.OK {
		return Undefined
	}
	if rate.Float <= 0 {
		return Defined(0)
	}
	thinnest := RowMin(readings)
	return Defined(math.Max(0, (thinnest.Float-Number(allowedMinThickness))/rate.Float))
}
