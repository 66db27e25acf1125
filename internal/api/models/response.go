package models

import "github.com/ReLIFE-Project-EU/relife-service-template-financial-service/internal/auth"

// NPVResponse represents the response of POST /financial/npv
type NPVResponse struct {
	NPV   float64    `json:"npv"`
	Input NPVRequest `json:"input"`
}

// IIResponse represents the response of POST /financial/ii
type IIResponse struct {
	II    float64   `json:"ii"`
	Input IIRequest `json:"input"`
}

// OPEXResponse represents the response of POST /financial/opex
type OPEXResponse struct {
	OPEX  float64     `json:"opex"`
	Input OPEXRequest `json:"input"`
}

// ROIResponse represents the response of POST /financial/roi.
// ROI is a percentage.
type ROIResponse struct {
	ROI   float64    `json:"roi"`
	Input ROIRequest `json:"input"`
}

// IRRResponse represents the response of POST /financial/irr.
// IRR is a plain ratio, not a percentage.
type IRRResponse struct {
	IRR   float64    `json:"irr"`
	Input IRRRequest `json:"input"`
}

// HealthResponse represents the response of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// WhoAmIResponse is the authenticated user plus derived permission flags.
type WhoAmIResponse struct {
	auth.AuthenticatedUser
	IsAdmin            bool `json:"is_admin"`
	IsKeycloakProvider bool `json:"is_keycloak_provider"`
}

// FileUploadResponse represents the response of POST /storage
type FileUploadResponse struct {
	Message   string `json:"message"`
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

// StorageFileInfo describes one stored file in GET /storage
type StorageFileInfo struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
	PublicURL string `json:"public_url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
