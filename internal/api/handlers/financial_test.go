package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newFinancialRouter(calc finance.Calculator) *gin.Engine {
	h := NewFinancialHandler(calc, zap.NewNop())
	router := gin.New()
	router.POST("/financial/npv", h.NPV)
	router.POST("/financial/ii", h.InitialInvestment)
	router.POST("/financial/opex", h.OPEX)
	router.POST("/financial/roi", h.ROI)
	router.POST("/financial/irr", h.IRR)
	return router
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// metricResponse decodes {"<metric>": float, "input": {...}}.
func metricResponse(t *testing.T, w *httptest.ResponseRecorder, metric string) (float64, json.RawMessage) {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	var value float64
	if err := json.Unmarshal(body[metric], &value); err != nil {
		t.Fatalf("response %q has no numeric %q: %v", w.Body.String(), metric, err)
	}
	return value, body["input"]
}

func TestFinancialEndpoints(t *testing.T) {
	router := newFinancialRouter(finance.Default)

	tests := []struct {
		name     string
		path     string
		metric   string
		body     string
		expected float64
	}{
		{
			name:     "npv",
			path:     "/financial/npv",
			metric:   "npv",
			body:     `{"cash_flows":[100,100],"discount_rate":0.1,"energy_savings":0,"initial_investment":150,"lifetime":2}`,
			expected: -150 + 100/1.1 + 100/1.21,
		},
		{
			name:     "ii with subsidy and loan",
			path:     "/financial/ii",
			metric:   "ii",
			body:     `{"capex":1000,"subsidy":200,"loan_amount":300}`,
			expected: 500,
		},
		{
			name:     "ii explicit zero capex",
			path:     "/financial/ii",
			metric:   "ii",
			body:     `{"capex":0}`,
			expected: 0,
		},
		{
			name:     "opex",
			path:     "/financial/opex",
			metric:   "opex",
			body:     `{"energy_mix":[10,20],"energy_prices":[2,3],"maintenance_cost":50}`,
			expected: 130,
		},
		{
			name:     "roi",
			path:     "/financial/roi",
			metric:   "roi",
			body:     `{"capex":1000,"energy_savings":500,"energy_mix":[10,20],"energy_prices":[2,3],"maintenance_cost":50}`,
			expected: -63,
		},
		{
			name:     "roi zero investment",
			path:     "/financial/roi",
			metric:   "roi",
			body:     `{"energy_savings":500}`,
			expected: 0,
		},
		{
			name:     "irr",
			path:     "/financial/irr",
			metric:   "irr",
			body:     `{"capex":1000,"energy_savings":500,"energy_mix":[10,20],"energy_prices":[2,3],"maintenance_cost":50}`,
			expected: 0.37,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, tt.path, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			got, _ := metricResponse(t, w, tt.metric)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("%s = %v, expected %v", tt.metric, got, tt.expected)
			}
		})
	}
}

func TestEchoedInputReproducesResult(t *testing.T) {
	router := newFinancialRouter(finance.Default)

	requests := map[string]string{
		"npv":  `{"cash_flows":[120,80,40],"discount_rate":0.05,"energy_savings":12.5,"initial_investment":200,"lifetime":5}`,
		"ii":   `{"capex":5000,"interest_rate":0.04,"loan_term":10,"loan_amount":1500,"subsidy":750}`,
		"opex": `{"energy_mix":[100,110,120],"energy_prices":[0.21,0.23],"maintenance_cost":35}`,
		"roi":  `{"capex":5000,"subsidy":750,"energy_savings":2500,"energy_mix":[100,110],"energy_prices":[0.2,0.25],"maintenance_cost":35,"other_outflows":10}`,
		"irr":  `{"capex":5000,"loan_amount":1000,"energy_savings":2500,"energy_mix":[100],"energy_prices":[0.2],"maintenance_cost":35}`,
	}

	for metric, body := range requests {
		t.Run(metric, func(t *testing.T) {
			path := "/financial/" + metric
			first := postJSON(router, path, body)
			if first.Code != http.StatusOK {
				t.Fatalf("first call status = %d, body %s", first.Code, first.Body.String())
			}
			value, input := metricResponse(t, first, metric)

			second := postJSON(router, path, string(input))
			if second.Code != http.StatusOK {
				t.Fatalf("echo call status = %d, body %s", second.Code, second.Body.String())
			}
			again, echoed := metricResponse(t, second, metric)
			if again != value {
				t.Errorf("echoed input gave %v, first call gave %v", again, value)
			}
			if !bytes.Equal(echoed, input) {
				t.Errorf("echo is not stable: %s vs %s", echoed, input)
			}
		})
	}
}

func TestEchoAppliesDefaults(t *testing.T) {
	router := newFinancialRouter(finance.Default)

	w := postJSON(router, "/financial/irr", `{"capex":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp models.IRRResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Input.ProjectLifetime == nil || *resp.Input.ProjectLifetime != models.DefaultProjectLifetime {
		t.Errorf("expected project_lifetime default, got %v", resp.Input.ProjectLifetime)
	}
	if resp.Input.EnergyMix == nil || len(resp.Input.EnergyMix) != 0 {
		t.Errorf("expected empty energy_mix, got %v", resp.Input.EnergyMix)
	}
	if !strings.Contains(w.Body.String(), `"energy_prices":[]`) {
		t.Errorf("expected empty energy_prices list in %s", w.Body.String())
	}
}

func TestFinancialErrors(t *testing.T) {
	router := newFinancialRouter(finance.Default)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "npv division by zero",
			path:     "/financial/npv",
			body:     `{"cash_flows":[100],"discount_rate":-1,"energy_savings":0,"initial_investment":10,"lifetime":1}`,
			wantCode: "CALCULATION_ERROR",
			wantMsg:  "float division by zero",
		},
		{
			name:     "npv missing lifetime",
			path:     "/financial/npv",
			body:     `{"cash_flows":[100],"discount_rate":0.1,"energy_savings":0,"initial_investment":10}`,
			wantCode: "INVALID_REQUEST",
			wantMsg:  "Lifetime",
		},
		{
			name:     "ii missing capex",
			path:     "/financial/ii",
			body:     `{"subsidy":10}`,
			wantCode: "INVALID_REQUEST",
			wantMsg:  "Capex",
		},
		{
			name:     "npv sum out of range",
			path:     "/financial/npv",
			body:     `{"cash_flows":[1e308,1e308],"discount_rate":0,"energy_savings":0,"initial_investment":0,"lifetime":2}`,
			wantCode: "CALCULATION_ERROR",
			wantMsg:  "numerical result out of range",
		},
		{
			name:     "ii out of range",
			path:     "/financial/ii",
			body:     `{"capex":-1.5e308,"subsidy":1e308,"loan_amount":1e308}`,
			wantCode: "CALCULATION_ERROR",
			wantMsg:  "numerical result out of range",
		},
		{
			name:     "opex out of range",
			path:     "/financial/opex",
			body:     `{"energy_mix":[1e200],"energy_prices":[1e200],"maintenance_cost":0}`,
			wantCode: "CALCULATION_ERROR",
			wantMsg:  "numerical result out of range",
		},
		{
			name:     "roi out of range",
			path:     "/financial/roi",
			body:     `{"capex":1e-310,"energy_savings":1}`,
			wantCode: "CALCULATION_ERROR",
			wantMsg:  "numerical result out of range",
		},
		{
			name:     "irr out of range",
			path:     "/financial/irr",
			body:     `{"capex":1e-310,"energy_savings":1}`,
			wantCode: "CALCULATION_ERROR",
			wantMsg:  "numerical result out of range",
		},
		{
			name:     "opex wrong type",
			path:     "/financial/opex",
			body:     `{"energy_mix":"lots","energy_prices":[1],"maintenance_cost":1}`,
			wantCode: "INVALID_REQUEST",
		},
		{
			name:     "malformed body",
			path:     "/financial/roi",
			body:     `{"capex":`,
			wantCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error: %v", err)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if !strings.Contains(resp.Error.Message, tt.wantMsg) {
				t.Errorf("message %q does not mention %q", resp.Error.Message, tt.wantMsg)
			}
		})
	}
}

func TestMaintenanceOncePolicy(t *testing.T) {
	router := newFinancialRouter(finance.Calculator{Maintenance: finance.MaintenanceOnce})

	w := postJSON(router, "/financial/opex", `{"energy_mix":[10,20],"energy_prices":[2,3],"maintenance_cost":50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got, _ := metricResponse(t, w, "opex"); got != 80 {
		t.Errorf("opex = %v, expected 80", got)
	}
}

func TestHealth(t *testing.T) {
	router := gin.New()
	router.GET("/health", Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.Timestamp <= 0 {
		t.Errorf("unexpected health response %+v", resp)
	}
}
