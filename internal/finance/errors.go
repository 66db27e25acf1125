package finance

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is returned when a discount factor evaluates to zero,
	// i.e. a discount rate of exactly -1.
	ErrDivisionByZero = errors.New("float division by zero")
	// ErrNumericOverflow is returned when a discount factor or a result is
	// out of the float64 range.
	ErrNumericOverflow = errors.New("numerical result out of range")
)

// Finite returns v unchanged, or ErrNumericOverflow when v is ±Inf or NaN.
// Such values have no JSON representation.
func Finite(v float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("result %v: %w", v, ErrNumericOverflow)
	}
	return v, nil
}
