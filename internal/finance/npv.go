package finance

import (
	"fmt"
	"math"
)

// NPV discounts yearly cash flows plus a constant energy saving over
// in.Lifetime years and subtracts the initial investment:
//
//	npv = -ii + sum_{t=1..lifetime} (cf[t-1] + savings) / (1+r)^t
//
// Years past the end of CashFlows contribute only the saving. A non-positive
// lifetime returns -ii. A discount rate of -1 yields ErrDivisionByZero; a
// factor or sum outside the float64 range yields ErrNumericOverflow.
func (c Calculator) NPV(in NPVInputs) (float64, error) {
	npv := -in.InitialInvestment
	for t := 1; t <= in.Lifetime; t++ {
		cf := 0.0
		if t-1 < len(in.CashFlows) {
			cf = in.CashFlows[t-1]
		}

		factor := math.Pow(1+in.DiscountRate, float64(t))
		if factor == 0 {
			return 0, fmt.Errorf("year %d: %w", t, ErrDivisionByZero)
		}
		if math.IsInf(factor, 0) || math.IsNaN(factor) {
			return 0, fmt.Errorf("year %d: %w", t, ErrNumericOverflow)
		}
		npv += (cf + in.EnergySavings) / factor
	}
	return Finite(npv)
}
