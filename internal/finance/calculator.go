// Package finance computes the appraisal indicators used to evaluate energy
// renovation projects: NPV, initial investment, OPEX, ROI and a simplified IRR.
//
// Every function is a pure mapping from its inputs to a scalar. Nothing here
// performs I/O or keeps state between calls.
package finance

import "fmt"

// MaintenancePolicy selects how the flat maintenance cost enters OPEX.
type MaintenancePolicy string

const (
	// MaintenanceLegacy charges maintenance for every unpriced year and then
	// once more as a trailing one-time term. This is the historical behaviour
	// and the default.
	MaintenanceLegacy MaintenancePolicy = "legacy"
	// MaintenanceOnce drops the trailing one-time term.
	MaintenanceOnce MaintenancePolicy = "once"
)

// ParseMaintenancePolicy maps a configuration value to a policy.
// The empty string selects MaintenanceLegacy.
func ParseMaintenancePolicy(s string) (MaintenancePolicy, error) {
	switch MaintenancePolicy(s) {
	case "", MaintenanceLegacy:
		return MaintenanceLegacy, nil
	case MaintenanceOnce:
		return MaintenanceOnce, nil
	default:
		return "", fmt.Errorf("unknown maintenance policy %q (want %q or %q)", s, MaintenanceLegacy, MaintenanceOnce)
	}
}

// Calculator carries the policy knobs of the indicator functions.
// The zero value behaves like Default.
type Calculator struct {
	Maintenance MaintenancePolicy
}

// Default is the calculator behind the package-level functions.
var Default = Calculator{Maintenance: MaintenanceLegacy}

// InvestmentTerms describes how a project's capital outlay is financed.
//
// InterestRate and LoanTerm are accepted for compatibility with existing
// clients but do not enter any formula.
type InvestmentTerms struct {
	Capex        float64
	InterestRate float64
	LoanTerm     float64
	LoanAmount   float64
	Subsidy      float64
}

// EnergyProfile holds yearly energy volumes and unit prices, index-aligned by
// year. Prices may be shorter than Volumes.
type EnergyProfile struct {
	Volumes []float64
	Prices  []float64
}

// ProjectInputs is the input record shared by ROI and IRR.
//
// ProjectLifetime is carried for IRR clients but does not enter the formula.
type ProjectInputs struct {
	InvestmentTerms
	Energy          EnergyProfile
	EnergySavings   float64
	MaintenanceCost float64
	OtherOutflows   float64
	ProjectLifetime float64
}

// NPVInputs is the input record of NPV.
type NPVInputs struct {
	CashFlows         []float64
	DiscountRate      float64
	EnergySavings     float64
	InitialInvestment float64
	Lifetime          int
}

func (c Calculator) policy() MaintenancePolicy {
	if c.Maintenance == "" {
		return MaintenanceLegacy
	}
	return c.Maintenance
}

// NPV computes the net present value with the default calculator.
func NPV(in NPVInputs) (float64, error) { return Default.NPV(in) }

// InitialInvestment computes the net initial outlay with the default calculator.
func InitialInvestment(terms InvestmentTerms) float64 { return Default.InitialInvestment(terms) }

// OPEX computes operating expenditure with the default calculator.
func OPEX(profile EnergyProfile, maintenanceCost float64) float64 {
	return Default.OPEX(profile, maintenanceCost)
}

// ROI computes the return on investment with the default calculator.
func ROI(in ProjectInputs) float64 { return Default.ROI(in) }

// IRR computes the simplified rate of return with the default calculator.
func IRR(in ProjectInputs) float64 { return Default.IRR(in) }
