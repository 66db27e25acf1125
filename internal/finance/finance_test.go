package finance

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func withinTolerance(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestInitialInvestment(t *testing.T) {
	tests := []struct {
		name     string
		terms    InvestmentTerms
		expected float64
	}{
		{"Only capex", InvestmentTerms{Capex: 1000}, 1000},
		{"Capex with subsidy", InvestmentTerms{Capex: 1000, Subsidy: 200}, 800},
		{"Capex with loan", InvestmentTerms{Capex: 1000, LoanAmount: 300}, 700},
		{"Capex with subsidy and loan", InvestmentTerms{Capex: 1000, Subsidy: 200, LoanAmount: 300}, 500},
		{"Interest and term are inert", InvestmentTerms{Capex: 1000, InterestRate: 0.05, LoanTerm: 10}, 1000},
		{"Negative subsidy falls through", InvestmentTerms{Capex: 1000, Subsidy: -200}, 1000},
		{"Negative loan with subsidy falls through", InvestmentTerms{Capex: 1000, Subsidy: 200, LoanAmount: -50}, 1000},
		{"Zero capex", InvestmentTerms{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InitialInvestment(tt.terms)
			if result != tt.expected {
				t.Errorf("InitialInvestment(%+v) = %v, expected %v", tt.terms, result, tt.expected)
			}
		})
	}
}

func TestSimpleInitialInvestmentDiffersOnNegativeInputs(t *testing.T) {
	// subsidy > 0 with a negative loan: the four-case rule ignores both, the
	// two-case rule deducts both.
	four := AdjustInitialInvestment(1000, 200, -50)
	two := simpleInitialInvestment(1000, 200, -50)
	if four != 1000 {
		t.Errorf("four-case rule = %v, expected 1000", four)
	}
	if two != 850 {
		t.Errorf("two-case rule = %v, expected 850", two)
	}
}

func TestOPEX(t *testing.T) {
	tests := []struct {
		name        string
		profile     EnergyProfile
		maintenance float64
		expected    float64
	}{
		{"All years priced", EnergyProfile{Volumes: []float64{10, 20}, Prices: []float64{2, 3}}, 50, 130},
		{"Empty profile yields maintenance", EnergyProfile{}, 50, 50},
		{"Unpriced years charge maintenance", EnergyProfile{Volumes: []float64{10, 20, 30}, Prices: []float64{2}}, 5, 20 + 5 + 5 + 5},
		{"Extra prices are ignored", EnergyProfile{Volumes: []float64{10}, Prices: []float64{2, 3, 4}}, 0, 20},
		{"Zero maintenance", EnergyProfile{Volumes: []float64{1, 2}, Prices: []float64{3, 4}}, 0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OPEX(tt.profile, tt.maintenance)
			if !withinTolerance(result, tt.expected, tolerance) {
				t.Errorf("OPEX() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

// The energy part of the reference example is 10*2 + 20*3 = 80. The trailing
// maintenance term is added on top; the once policy removes it.
func TestOPEXMaintenancePolicy(t *testing.T) {
	profile := EnergyProfile{Volumes: []float64{10, 20}, Prices: []float64{2, 3}}

	legacy := Calculator{Maintenance: MaintenanceLegacy}.OPEX(profile, 50)
	if legacy != 80+50 {
		t.Errorf("legacy OPEX = %v, expected %v", legacy, 80+50)
	}

	once := Calculator{Maintenance: MaintenanceOnce}.OPEX(profile, 50)
	if once != 80 {
		t.Errorf("once OPEX = %v, expected 80", once)
	}

	// Unpriced years still fall back to maintenance under the once policy.
	fallback := Calculator{Maintenance: MaintenanceOnce}.OPEX(EnergyProfile{Volumes: []float64{10, 20}, Prices: []float64{2}}, 50)
	if fallback != 20+50 {
		t.Errorf("once OPEX with unpriced year = %v, expected %v", fallback, 20+50)
	}

	var zero Calculator
	if got := zero.OPEX(profile, 50); got != legacy {
		t.Errorf("zero-value calculator OPEX = %v, expected legacy %v", got, legacy)
	}
}

func TestParseMaintenancePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected MaintenancePolicy
		wantErr  bool
	}{
		{"", MaintenanceLegacy, false},
		{"legacy", MaintenanceLegacy, false},
		{"once", MaintenanceOnce, false},
		{"twice", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMaintenancePolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMaintenancePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseMaintenancePolicy(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNPV(t *testing.T) {
	tests := []struct {
		name     string
		in       NPVInputs
		expected float64
	}{
		{
			name:     "Two years of cash flows",
			in:       NPVInputs{CashFlows: []float64{100, 100}, DiscountRate: 0.1, InitialInvestment: 150, Lifetime: 2},
			expected: -150 + 100/1.1 + 100/1.21,
		},
		{
			name:     "Lifetime longer than cash flows",
			in:       NPVInputs{CashFlows: []float64{100}, DiscountRate: 0.1, EnergySavings: 10, InitialInvestment: 50, Lifetime: 2},
			expected: -50 + 110/1.1 + 10/1.21,
		},
		{
			name:     "Lifetime shorter than cash flows",
			in:       NPVInputs{CashFlows: []float64{100, 200, 300}, DiscountRate: 0, InitialInvestment: 0, Lifetime: 1},
			expected: 100,
		},
		{
			name:     "Zero lifetime returns negative investment",
			in:       NPVInputs{CashFlows: []float64{100}, DiscountRate: 0.1, InitialInvestment: 150},
			expected: -150,
		},
		{
			name:     "Negative lifetime returns negative investment",
			in:       NPVInputs{DiscountRate: -1, InitialInvestment: 75, Lifetime: -3},
			expected: -75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NPV(tt.in)
			if err != nil {
				t.Fatalf("NPV() unexpected error: %v", err)
			}
			if !withinTolerance(result, tt.expected, 1e-9) {
				t.Errorf("NPV() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestNPVReferenceValue(t *testing.T) {
	result, err := NPV(NPVInputs{CashFlows: []float64{100, 100}, DiscountRate: 0.1, InitialInvestment: 150, Lifetime: 2})
	if err != nil {
		t.Fatalf("NPV() unexpected error: %v", err)
	}
	// -150 + 100/1.1 + 100/1.21
	if !withinTolerance(result, 23.5537, 0.0001) {
		t.Errorf("NPV() = %v, expected about 23.5537", result)
	}
}

func TestNPVDivisionByZero(t *testing.T) {
	_, err := NPV(NPVInputs{CashFlows: []float64{100}, DiscountRate: -1, InitialInvestment: 10, Lifetime: 1})
	if err == nil {
		t.Fatal("expected error for discount rate of -1")
	}
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestNPVOverflow(t *testing.T) {
	_, err := NPV(NPVInputs{DiscountRate: 1e10, Lifetime: 100})
	if !errors.Is(err, ErrNumericOverflow) {
		t.Errorf("expected ErrNumericOverflow, got %v", err)
	}
}

func TestNPVSumOverflow(t *testing.T) {
	_, err := NPV(NPVInputs{CashFlows: []float64{1e308, 1e308}, Lifetime: 2})
	if !errors.Is(err, ErrNumericOverflow) {
		t.Errorf("expected ErrNumericOverflow, got %v", err)
	}
}

func TestFinite(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"large", math.MaxFloat64, false},
		{"negative", -42.5, false},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
		{"not a number", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Finite(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrNumericOverflow) {
					t.Errorf("Finite(%v) error = %v, expected ErrNumericOverflow", tt.value, err)
				}
				return
			}
			if err != nil || got != tt.value {
				t.Errorf("Finite(%v) = %v, %v", tt.value, got, err)
			}
		})
	}

	// The indicator functions without an error return can still leave the
	// float64 range.
	if _, err := Finite(OPEX(EnergyProfile{Volumes: []float64{1e200}, Prices: []float64{1e200}}, 0)); err == nil {
		t.Error("expected OPEX overflow to be reported")
	}
	if _, err := Finite(IRR(ProjectInputs{InvestmentTerms: InvestmentTerms{Capex: 1e-310}, EnergySavings: 1})); err == nil {
		t.Error("expected IRR overflow to be reported")
	}
}

func TestROI(t *testing.T) {
	tests := []struct {
		name     string
		in       ProjectInputs
		expected float64
	}{
		{
			name: "Capex only",
			in: ProjectInputs{
				InvestmentTerms: InvestmentTerms{Capex: 1000},
				EnergySavings:   3000,
			},
			// net = 3000 - 0 = 3000, roi = (3000-1000)/1000*100
			expected: 200,
		},
		{
			name: "With opex, subsidy and outflows",
			in: ProjectInputs{
				InvestmentTerms: InvestmentTerms{Capex: 1000, Subsidy: 200},
				Energy:          EnergyProfile{Volumes: []float64{10, 20}, Prices: []float64{2, 3}},
				EnergySavings:   2000,
				MaintenanceCost: 50,
				OtherOutflows:   70,
			},
			// opex = 130, ii = 800, net = 2000-130-70 = 1800, roi = (1800-800)/800*100
			expected: 125,
		},
		{
			name: "Loss",
			in: ProjectInputs{
				InvestmentTerms: InvestmentTerms{Capex: 1000, LoanAmount: 500},
				EnergySavings:   100,
			},
			// ii = 500, net = 100, roi = (100-500)/500*100
			expected: -80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ROI(tt.in)
			if !withinTolerance(result, tt.expected, tolerance) {
				t.Errorf("ROI() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestIRR(t *testing.T) {
	tests := []struct {
		name     string
		in       ProjectInputs
		expected float64
	}{
		{
			name: "Capex only",
			in: ProjectInputs{
				InvestmentTerms: InvestmentTerms{Capex: 1000},
				EnergySavings:   300,
			},
			expected: 0.3,
		},
		{
			name: "Subsidy and loan deducted together",
			in: ProjectInputs{
				InvestmentTerms: InvestmentTerms{Capex: 1000, Subsidy: 200, LoanAmount: 300},
				Energy:          EnergyProfile{Volumes: []float64{10}, Prices: []float64{2}},
				EnergySavings:   500,
				MaintenanceCost: 30,
				OtherOutflows:   50,
			},
			// opex = 20 + 30 = 50, ii = 500, irr = (500-50-50)/500
			expected: 0.8,
		},
		{
			name: "Project lifetime is inert",
			in: ProjectInputs{
				InvestmentTerms: InvestmentTerms{Capex: 1000},
				EnergySavings:   300,
				ProjectLifetime: 5,
			},
			expected: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IRR(tt.in)
			if !withinTolerance(result, tt.expected, tolerance) {
				t.Errorf("IRR() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestZeroInvestmentSentinel(t *testing.T) {
	inputs := []ProjectInputs{
		{},
		{InvestmentTerms: InvestmentTerms{Capex: 500, Subsidy: 500}, EnergySavings: 1e6},
		{InvestmentTerms: InvestmentTerms{Capex: 500, LoanAmount: 200, Subsidy: 300}, OtherOutflows: 99, MaintenanceCost: 12},
		{InvestmentTerms: InvestmentTerms{Capex: 0, InterestRate: 0.3, LoanTerm: 40}, Energy: EnergyProfile{Volumes: []float64{1, 2, 3}}},
	}

	for i, in := range inputs {
		if got := ROI(in); got != 0 {
			t.Errorf("case %d: ROI() = %v, expected 0 sentinel", i, got)
		}
		if got := IRR(in); got != 0 {
			t.Errorf("case %d: IRR() = %v, expected 0 sentinel", i, got)
		}
	}
}

func TestROIAndIRRUseDifferentInvestmentRules(t *testing.T) {
	in := ProjectInputs{
		InvestmentTerms: InvestmentTerms{Capex: 1000, Subsidy: 200, LoanAmount: -100},
		EnergySavings:   1000,
	}

	// ROI falls through to ii = capex: (1000-1000)/1000*100 = 0.
	if got := ROI(in); got != 0 {
		t.Errorf("ROI() = %v, expected 0", got)
	}
	// IRR deducts both: ii = 1000-200+100 = 900.
	if got := IRR(in); !withinTolerance(got, 1000.0/900.0, tolerance) {
		t.Errorf("IRR() = %v, expected %v", got, 1000.0/900.0)
	}
}

func TestDeterminism(t *testing.T) {
	in := ProjectInputs{
		InvestmentTerms: InvestmentTerms{Capex: 1234.5, Subsidy: 100, LoanAmount: 50},
		Energy:          EnergyProfile{Volumes: []float64{1.1, 2.2, 3.3}, Prices: []float64{0.17, 0.19}},
		EnergySavings:   789,
		MaintenanceCost: 12.5,
		OtherOutflows:   3,
	}
	if ROI(in) != ROI(in) {
		t.Error("ROI is not deterministic")
	}
	if IRR(in) != IRR(in) {
		t.Error("IRR is not deterministic")
	}
	a, errA := NPV(NPVInputs{CashFlows: []float64{1, 2, 3}, DiscountRate: 0.07, Lifetime: 10})
	b, errB := NPV(NPVInputs{CashFlows: []float64{1, 2, 3}, DiscountRate: 0.07, Lifetime: 10})
	if errA != nil || errB != nil || a != b {
		t.Errorf("NPV is not deterministic: %v (%v) vs %v (%v)", a, errA, b, errB)
	}
}
