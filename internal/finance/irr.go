package finance

// IRR returns a single-period return ratio:
//
//	irr = (savings - opex - other_outflows) / ii
//
// This is not a root-found internal rate of return over a cash-flow series.
// ii deducts subsidy and loan together whenever either is positive, which is
// not the rule ROI uses. ProjectLifetime is ignored. When ii is zero the
// result is the 0 sentinel.
func (c Calculator) IRR(in ProjectInputs) float64 {
	opex := c.OPEX(in.Energy, in.MaintenanceCost)
	ii := simpleInitialInvestment(in.Capex, in.Subsidy, in.LoanAmount)

	if ii == 0 {
		return 0
	}
	return (in.EnergySavings - opex - in.OtherOutflows) / ii
}
