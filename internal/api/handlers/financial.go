package handlers

import (
	"net/http"

	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/api/models"
	"github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/finance"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FinancialHandler serves the indicator endpoints under /financial.
type FinancialHandler struct {
	calc   finance.Calculator
	logger *zap.Logger
}

// NewFinancialHandler creates a new financial handler
func NewFinancialHandler(calc finance.Calculator, logger *zap.Logger) *FinancialHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinancialHandler{calc: calc, logger: logger}
}

// NPV handles POST /financial/npv
func (h *FinancialHandler) NPV(c *gin.Context) {
	var req models.NPVRequest
	if !bindRequest(c, &req) {
		return
	}

	npv, err := h.calc.NPV(req.Inputs())
	if err != nil {
		h.calculationError(c, "handlers.NPV", err)
		return
	}

	c.JSON(http.StatusOK, models.NPVResponse{NPV: npv, Input: req})
}

// InitialInvestment handles POST /financial/ii
func (h *FinancialHandler) InitialInvestment(c *gin.Context) {
	var req models.IIRequest
	if !bindRequest(c, &req) {
		return
	}

	ii, err := finance.Finite(h.calc.InitialInvestment(req.Terms()))
	if err != nil {
		h.calculationError(c, "handlers.InitialInvestment", err)
		return
	}

	c.JSON(http.StatusOK, models.IIResponse{II: ii, Input: req})
}

// OPEX handles POST /financial/opex
func (h *FinancialHandler) OPEX(c *gin.Context) {
	var req models.OPEXRequest
	if !bindRequest(c, &req) {
		return
	}

	opex, err := finance.Finite(h.calc.OPEX(req.Profile(), *req.MaintenanceCost))
	if err != nil {
		h.calculationError(c, "handlers.OPEX", err)
		return
	}

	c.JSON(http.StatusOK, models.OPEXResponse{OPEX: opex, Input: req})
}

// ROI handles POST /financial/roi
func (h *FinancialHandler) ROI(c *gin.Context) {
	var req models.ROIRequest
	if !bindRequest(c, &req) {
		return
	}
	req.ApplyDefaults()

	roi, err := finance.Finite(h.calc.ROI(req.Inputs()))
	if err != nil {
		h.calculationError(c, "handlers.ROI", err)
		return
	}

	c.JSON(http.StatusOK, models.ROIResponse{ROI: roi, Input: req})
}

// IRR handles POST /financial/irr
func (h *FinancialHandler) IRR(c *gin.Context) {
	var req models.IRRRequest
	if !bindRequest(c, &req) {
		return
	}
	req.ApplyDefaults()

	irr, err := finance.Finite(h.calc.IRR(req.Inputs()))
	if err != nil {
		h.calculationError(c, "handlers.IRR", err)
		return
	}

	c.JSON(http.StatusOK, models.IRRResponse{IRR: irr, Input: req})
}

// bindRequest binds the JSON body and writes a 400 on failure.
func bindRequest(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return false
	}
	return true
}

// calculationError answers a core failure with 400 CALCULATION_ERROR.
func (h *FinancialHandler) calculationError(c *gin.Context, op string, err error) {
	h.logger.Debug("calculation failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "CALCULATION_ERROR",
			Message: err.Error(),
		},
	})
}
