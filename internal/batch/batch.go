// Package batch evaluates indicator requests offline, one JSON request or an
// array of them at a time, and writes the results as CSV.
package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
	"github.com/gin-gonic/gin/binding"
)

// Result is the outcome of one request. Failed requests carry Error and a
// zero Value.
type Result struct {
	Index  int             `json:"index"`
	Metric string          `json:"metric"`
	Value  float64         `json:"value"`
	Input  json.RawMessage `json:"input,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type evaluator func(calc finance.Calculator, raw []byte) (float64, interface{}, error)

var evaluators = map[string]evaluator{
	"npv": func(calc finance.Calculator, raw []byte) (float64, interface{}, error) {
		var req models.NPVRequest
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			return 0, nil, err
		}
		v, err := calc.NPV(req.Inputs())
		return v, req, err
	},
	"ii": func(calc finance.Calculator, raw []byte) (float64, interface{}, error) {
		var req models.IIRequest
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			return 0, nil, err
		}
		return calc.InitialInvestment(req.Terms()), req, nil
	},
	"opex": func(calc finance.Calculator, raw []byte) (float64, interface{}, error) {
		var req models.OPEXRequest
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			return 0, nil, err
		}
		return calc.OPEX(req.Profile(), *req.MaintenanceCost), req, nil
	},
	"roi": func(calc finance.Calculator, raw []byte) (float64, interface{}, error) {
		var req models.ROIRequest
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			return 0, nil, err
		}
		req.ApplyDefaults()
		return calc.ROI(req.Inputs()), req, nil
	},
	"irr": func(calc finance.Calculator, raw []byte) (float64, interface{}, error) {
		var req models.IRRRequest
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			return 0, nil, err
		}
		req.ApplyDefaults()
		return calc.IRR(req.Inputs()), req, nil
	},
}

// Metrics lists the supported metric names.
func Metrics() []string {
	out := make([]string, 0, len(evaluators))
	for name := range evaluators {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Evaluate computes metric for every request in raw, which holds either a
// single JSON object or an array of objects. A request that fails
// validation or calculation yields a Result with Error set; the others are
// still evaluated.
func Evaluate(calc finance.Calculator, metric string, raw []byte) ([]Result, error) {
	eval, ok := evaluators[metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", metric)
	}

	requests, err := splitRequests(raw)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(requests))
	for i, req := range requests {
		r := Result{Index: i, Metric: metric}
		value, input, err := eval(calc, req)
		if err == nil {
			value, err = finance.Finite(value)
		}
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Value = value
			if r.Input, err = json.Marshal(input); err != nil {
				return nil, fmt.Errorf("request %d: %w", i, err)
			}
		}
		results = append(results, r)
	}
	return results, nil
}

func splitRequests(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("no request found")
	}
	if trimmed[0] != '[' {
		return []json.RawMessage{trimmed}, nil
	}

	var requests []json.RawMessage
	if err := json.Unmarshal(trimmed, &requests); err != nil {
		return nil, fmt.Errorf("failed to parse request array: %w", err)
	}
	return requests, nil
}
