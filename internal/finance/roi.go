package finance

// ROI returns the return on investment as a percentage:
//
//	net = savings - opex - other_outflows
//	roi = (net - ii) / ii * 100
//
// ii follows the four-case rule of AdjustInitialInvestment. When ii is zero
// the result is the 0 sentinel rather than an error.
func (c Calculator) ROI(in ProjectInputs) float64 {
	opex := c.OPEX(in.Energy, in.MaintenanceCost)
	ii := AdjustInitialInvestment(in.Capex, in.Subsidy, in.LoanAmount)

	netProfit := in.EnergySavings - opex - in.OtherOutflows
	if ii == 0 {
		return 0
	}
	return (netProfit - ii) / ii * 100
}
