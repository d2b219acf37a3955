package calculators

// Tonne-of-oil-equivalent conversion factors.
const (
	ElectricToeFactor = 0.229
	GasToeFactor      = 1.019
)

// ElectricToe converts annual electricity use to toe.
func ElectricToe(annualKWh float64) Value {
	return Defined(annualKWh * ElectricToeFactor)
}

// GasToe converts annual gas use to toe.
func GasToe(annualUsage float64) Value {
	return Defined(annualUsage * GasToeFactor)
}
