package calculators

import "math"

// DefaultPowerFactor applies when the power factor is left blank.
const DefaultPowerFactor = 0.9

// pumpConstant converts head[m] x flow[m3/h] into kW for water.
const pumpConstant = 367.0

// DuctFlow is the air flow in m3/h: the rounded mean of the velocity
// samples [m/s] times 3600 times the duct section [m x m].
func DuctFlow(velocities []any, width, height any) Value {
	return Defined(math.Round(Average(velocities) * 3600 * Number(width) * Number(height)))
}

// ThreePhaseKW is the electrical load sqrt(3) x V x I x PF / 1000.
func ThreePhaseKW(voltage, current, powerFactor any) Value {
	pf := DefaultPowerFactor
	if !IsBlank(powerFactor) {
		pf = Number(powerFactor)
	}
	return Defined(math.Sqrt(3) * Number(voltage) * Number(current) * pf / 1000)
}

// PumpEfficiency is the hydraulic efficiency in percent for water
// (density 1). Undefined when the measured power is not positive.
func PumpEfficiency(head, flow, measuredPower any) Value {
	p := Number(measuredPower)
	if p <= 0 {
		return Undefined
	}
	const density = 1.0
	return Defined(density * Number(head) * Number(flow) / (pumpConstant * p) * 100)
}

// COP is the coefficient of performance. Undefined when input power is not positive.
func COP(capacity, inputPower any) Value {
	in := Number(inputPower)
	if in <= 0 {
		return Undefined
	}
	return Defined(Number(capacity) / in)
}
