package calculators

// RegisterDefaults registers all built-in calculators with the registry.
//
// Input names per calculator:
//   - ductFlow: velocity (list), width, height
//   - threePhaseKW: voltage, current, powerFactor
//   - pumpEfficiency: head, flow, power
//   - cop: capacity, input
//   - corrosionRate: nominal, readings (list), years
//   - remainingLife: nominal, readings (list), years, allowed
//   - average: values (list)
//   - annualSum, electricToe, gasToe: months (list)
func RegisterDefaults(r *Registry) {
	r.Register("ductFlow", func(in Inputs) Value {
		return DuctFlow(in.List("velocity"), in.Get("width"), in.Get("height"))
	})
	r.Register("threePhaseKW", func(in Inputs) Value {
		return ThreePhaseKW(in.Get("voltage"), in.Get("current"), in.Get("powerFactor"))
	})
	r.Register("pumpEfficiency", func(in Inputs) Value {
		return PumpEfficiency(in.Get("head"), in.Get("flow"), in.Get("power"))
	})
	r.Register("cop", func(in Inputs) Value {
		return COP(in.Get("capacity"), in.Get("input"))
	})
	r.Register("corrosionRate", func(in Inputs) Value {
		return CorrosionRate(in.Get("nominal"), in.List("readings"), in.Get("years"))
	})
	r.Register("remainingLife", func(in Inputs) Value {
		return RemainingLife(in.Get("nominal"), in.List("readings"), in.Get("years"), in.Get("allowed"))
	})
	r.Register("average", func(in Inputs) Value {
		return Defined(Average(in.List("values")))
	})
	r.Register("annualSum", func(in Inputs) Value {
		return Defined(AnnualSum(in.List("months"), in.Options().StripGroupingDots))
	})
	r.Register("electricToe", func(in Inputs) Value {
		return ElectricToe(AnnualSum(in.List("months"), in.Options().StripGroupingDots))
	})
	r.Register("gasToe", func(in Inputs) Value {
		return GasToe(AnnualSum(in.List("months"), in.Options().StripGroupingDots))
	})
}
