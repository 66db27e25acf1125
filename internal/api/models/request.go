package models

import "github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"

// Required numeric fields are pointers so that an explicit 0 passes the
// "required" binding while a missing field is rejected.

// NPVRequest represents the request body of POST /financial/npv
type NPVRequest struct {
	CashFlows         []float64 `json:"cash_flows" binding:"required"`
	DiscountRate      *float64  `json:"discount_rate" binding:"required"`
	EnergySavings     *float64  `json:"energy_savings" binding:"required"`
	InitialInvestment *float64  `json:"initial_investment" binding:"required"`
	Lifetime          *int      `json:"lifetime" binding:"required"`
}

// IIRequest represents the request body of POST /financial/ii.
// InterestRate and LoanTerm are accepted but have no effect on the result.
type IIRequest struct {
	Capex        *float64 `json:"capex" binding:"required"`
	InterestRate float64  `json:"interest_rate"`
	LoanTerm     float64  `json:"loan_term"`
	LoanAmount   float64  `json:"loan_amount"`
	Subsidy      float64  `json:"subsidy"`
}

// OPEXRequest represents the request body of POST /financial/opex
type OPEXRequest struct {
	EnergyMix       []float64 `json:"energy_mix" binding:"required"`
	EnergyPrices    []float64 `json:"energy_prices" binding:"required"`
	MaintenanceCost *float64  `json:"maintenance_cost" binding:"required"`
}

// ProjectRequest holds the fields shared by the ROI and IRR endpoints.
// Every field is optional and defaults to zero or an empty list.
type ProjectRequest struct {
	Capex           float64   `json:"capex"`
	InterestRate    float64   `json:"interest_rate"`
	LoanTerm        float64   `json:"loan_term"`
	LoanAmount      float64   `json:"loan_amount"`
	Subsidy         float64   `json:"subsidy"`
	EnergySavings   float64   `json:"energy_savings"`
	EnergyMix       []float64 `json:"energy_mix"`
	EnergyPrices    []float64 `json:"energy_prices"`
	MaintenanceCost float64   `json:"maintenance_cost"`
	OtherOutflows   float64   `json:"other_outflows"`
}

// ROIRequest represents the request body of POST /financial/roi
type ROIRequest struct {
	ProjectRequest
}

// IRRRequest represents the request body of POST /financial/irr.
// ProjectLifetime defaults to DefaultProjectLifetime and is currently unused.
type IRRRequest struct {
	ProjectRequest
	ProjectLifetime *float64 `json:"project_lifetime"`
}

// DefaultProjectLifetime is the project lifetime in years assumed by IRR
// requests that omit it.
const DefaultProjectLifetime = 20.0

// ApplyDefaults replaces missing lists with empty ones so the echoed input
// is a valid request on its own.
func (r *ProjectRequest) ApplyDefaults() {
	if r.EnergyMix == nil {
		r.EnergyMix = []float64{}
	}
	if r.EnergyPrices == nil {
		r.EnergyPrices = []float64{}
	}
}

// ApplyDefaults fills the optional fields of an IRR request.
func (r *IRRRequest) ApplyDefaults() {
	r.ProjectRequest.ApplyDefaults()
	if r.ProjectLifetime == nil {
		lifetime := DefaultProjectLifetime
		r.ProjectLifetime = &lifetime
	}
}

// Inputs converts a bound request into calculator inputs. Call after binding.
func (r NPVRequest) Inputs() finance.NPVInputs {
	return finance.NPVInputs{
		CashFlows:         r.CashFlows,
		DiscountRate:      *r.DiscountRate,
		EnergySavings:     *r.EnergySavings,
		InitialInvestment: *r.InitialInvestment,
		Lifetime:          *r.Lifetime,
	}
}

// Terms converts a bound request into investment terms. Call after binding.
func (r IIRequest) Terms() finance.InvestmentTerms {
	return finance.InvestmentTerms{
		Capex:        *r.Capex,
		InterestRate: r.InterestRate,
		LoanTerm:     r.LoanTerm,
		LoanAmount:   r.LoanAmount,
		Subsidy:      r.Subsidy,
	}
}

// Profile returns the energy profile of the request.
func (r OPEXRequest) Profile() finance.EnergyProfile {
	return finance.EnergyProfile{Volumes: r.EnergyMix, Prices: r.EnergyPrices}
}

// Inputs converts the shared ROI/IRR fields into calculator inputs.
func (r ProjectRequest) Inputs() finance.ProjectInputs {
	return finance.ProjectInputs{
		InvestmentTerms: finance.InvestmentTerms{
			Capex:        r.Capex,
			InterestRate: r.InterestRate,
			LoanTerm:     r.LoanTerm,
			LoanAmount:   r.LoanAmount,
			Subsidy:      r.Subsidy,
		},
		Energy:          finance.EnergyProfile{Volumes: r.EnergyMix, Prices: r.EnergyPrices},
		EnergySavings:   r.EnergySavings,
		MaintenanceCost: r.MaintenanceCost,
		OtherOutflows:   r.OtherOutflows,
	}
}

// Inputs includes the project lifetime; ApplyDefaults must run first.
func (r IRRRequest) Inputs() finance.ProjectInputs {
	in := r.ProjectRequest.Inputs()
	if r.ProjectLifetime != nil {
		in.ProjectLifetime = *r.ProjectLifetime
	}
	return in
}
