package finance

// AdjustInitialInvestment nets subsidy and loan off capex.
//
// Only strictly positive subsidy and loan amounts are deducted, and only in
// the four combinations {zero, positive} x {zero, positive}. Any negative
// value falls through to capex unchanged.
func AdjustInitialInvestment(capex, subsidy, loanAmount float64) float64 {
	switch {
	case subsidy == 0 && loanAmount == 0:
		return capex
	case subsidy > 0 && loanAmount == 0:
		return capex - subsidy
	case loanAmount > 0 && subsidy == 0:
		return capex - loanAmount
	case loanAmount > 0 && subsidy > 0:
		return capex - subsidy - loanAmount
	default:
		return capex
	}
}

// simpleInitialInvestment is the two-case rule used by IRR: deduct both
// subsidy and loan as soon as either is positive. It differs from
// AdjustInitialInvestment when one of the two is negative, and that
// difference is observable through the API, so keep the two separate.
func simpleInitialInvestment(capex, subsidy, loanAmount float64) float64 {
	if subsidy > 0 || loanAmount > 0 {
		return capex - subsidy - loanAmount
	}
	return capex
}

// InitialInvestment returns the net initial outlay for terms.
// InterestRate and LoanTerm are ignored.
func (c Calculator) InitialInvestment(terms InvestmentTerms) float64 {
	return AdjustInitialInvestment(terms.Capex, terms.Subsidy, terms.LoanAmount)
}
