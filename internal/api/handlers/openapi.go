package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// OpenAPIDocument is the subset of OpenAPI 3.0 the service describes itself with.
type OpenAPIDocument struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       OpenAPIInfo         `json:"info" yaml:"info"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components OpenAPIComponents   `json:"components" yaml:"components"`
}

type OpenAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version" yaml:"version"`
}

type PathItem struct {
	Get  *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Post *Operation `json:"post,omitempty" yaml:"post,omitempty"`
}

type Operation struct {
	Summary     string                `json:"summary" yaml:"summary"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string              `json:"tags,omitempty" yaml:"tags,omitempty"`
	OperationID string                `json:"operationId" yaml:"operationId"`
	RequestBody *RequestBody          `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]Response   `json:"responses" yaml:"responses"`
	Security    []map[string][]string `json:"security,omitempty" yaml:"security,omitempty"`
}

type RequestBody struct {
	Required bool                 `json:"required" yaml:"required"`
	Content  map[string]MediaType `json:"content" yaml:"content"`
}

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema" yaml:"schema"`
}

type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Default     interface{}        `json:"default,omitempty" yaml:"default,omitempty"`
}

type OpenAPIComponents struct {
	Schemas         map[string]*Schema        `json:"schemas" yaml:"schemas"`
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type   string `json:"type" yaml:"type"`
	Scheme string `json:"scheme" yaml:"scheme"`
}

func number(description string) *Schema {
	return &Schema{Type: "number", Format: "double", Description: description}
}

func numberList(description string) *Schema {
	return &Schema{Type: "array", Items: &Schema{Type: "number", Format: "double"}, Description: description}
}

func ref(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func jsonBody(schema *Schema) map[string]MediaType {
	return map[string]MediaType{"application/json": {Schema: schema}}
}

func financialOperation(id, summary, description, request, response string, secured bool) *Operation {
	op := &Operation{
		Summary:     summary,
		Description: description,
		Tags:        []string{"financial"},
		OperationID: id,
		RequestBody: &RequestBody{Required: true, Content: jsonBody(ref(request))},
		Responses: map[string]Response{
			"200": {Description: "Successful calculation", Content: jsonBody(ref(response))},
			"400": {Description: "Invalid input or calculation error", Content: jsonBody(ref("ErrorResponse"))},
		},
	}
	if secured {
		op.Security = []map[string][]string{{"bearerAuth": {}}}
		op.Responses["401"] = Response{Description: "Not authenticated", Content: jsonBody(ref("ErrorResponse"))}
	}
	return op
}

func projectProperties() map[string]*Schema {
	return map[string]*Schema{
		"capex":            number("Capital expenditure"),
		"interest_rate":    number("Loan interest rate; accepted but unused"),
		"loan_term":        number("Loan term in years; accepted but unused"),
		"loan_amount":      number("Loan principal"),
		"subsidy":          number("Grant reducing the initial investment"),
		"energy_savings":   number("Savings credited in the numerator"),
		"energy_mix":       numberList("Yearly energy volumes"),
		"energy_prices":    numberList("Yearly unit prices, index-aligned with energy_mix"),
		"maintenance_cost": number("Flat yearly maintenance cost"),
		"other_outflows":   number("Other outflows"),
	}
}

func withResult(name string, input string) *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			name:    number(""),
			"input": ref(input),
		},
		Required: []string{name, "input"},
	}
}

// NewOpenAPIDocument describes every route the router registers.
// secureFinancial marks the /financial operations as requiring a bearer token.
func NewOpenAPIDocument(version string, secureFinancial bool) *OpenAPIDocument {
	irrProps := projectProperties()
	irrProps["project_lifetime"] = &Schema{
		Type:        "number",
		Format:      "double",
		Description: "Project lifetime in years; accepted but unused",
		Default:     20.0,
	}

	bearer := []map[string][]string{{"bearerAuth": {}}}
	unauthorized := Response{Description: "Not authenticated", Content: jsonBody(ref("ErrorResponse"))}

	return &OpenAPIDocument{
		OpenAPI: "3.0.3",
		Info: OpenAPIInfo{
			Title:       "ReLIFE Financial Service",
			Description: "Financial indicators for energy renovation projects.",
			Version:     version,
		},
		Paths: map[string]PathItem{
			"/financial/npv": {Post: financialOperation("calculateNPV", "Calculate Net Present Value",
				"Discounts yearly cash flows plus energy savings and subtracts the initial investment.",
				"NPVRequest", "NPVResponse", secureFinancial)},
			"/financial/ii": {Post: financialOperation("calculateII", "Calculate Initial Investment",
				"Capital expenditure net of subsidy and loan.",
				"IIRequest", "IIResponse", secureFinancial)},
			"/financial/opex": {Post: financialOperation("calculateOPEX", "Calculate Operational Expenditure",
				"Energy cost over the priced years plus maintenance.",
				"OPEXRequest", "OPEXResponse", secureFinancial)},
			"/financial/roi": {Post: financialOperation("calculateROI", "Calculate Return on Investment",
				"Net return as a percentage of the initial investment.",
				"ROIRequest", "ROIResponse", secureFinancial)},
			"/financial/irr": {Post: financialOperation("calculateIRR", "Calculate Internal Rate of Return",
				"Simplified single-period rate of return, as a ratio.",
				"IRRRequest", "IRRResponse", secureFinancial)},
			"/health": {Get: &Operation{
				Summary:     "Health check",
				Tags:        []string{"service"},
				OperationID: "health",
				Responses: map[string]Response{
					"200": {Description: "Service is healthy", Content: jsonBody(ref("HealthResponse"))},
				},
			}},
			"/whoami": {Get: &Operation{
				Summary:     "Current user with Keycloak roles",
				Tags:        []string{"auth"},
				OperationID: "whoami",
				Security:    bearer,
				Responses: map[string]Response{
					"200": {Description: "Authenticated user", Content: jsonBody(&Schema{Type: "object"})},
					"401": unauthorized,
				},
			}},
			"/storage": {
				Get: &Operation{
					Summary:     "List the caller's files",
					Tags:        []string{"storage"},
					OperationID: "listFiles",
					Security:    bearer,
					Responses: map[string]Response{
						"200": {Description: "Stored files", Content: jsonBody(&Schema{Type: "array", Items: ref("StorageFileInfo")})},
						"401": unauthorized,
						"500": {Description: "Storage failure", Content: jsonBody(ref("ErrorResponse"))},
					},
				},
				Post: &Operation{
					Summary:     "Upload a file to the caller's folder",
					Tags:        []string{"storage"},
					OperationID: "uploadFile",
					Security:    bearer,
					RequestBody: &RequestBody{
						Required: true,
						Content: map[string]MediaType{"multipart/form-data": {Schema: &Schema{
							Type:       "object",
							Properties: map[string]*Schema{"file": {Type: "string", Format: "binary"}},
							Required:   []string{"file"},
						}}},
					},
					Responses: map[string]Response{
						"200": {Description: "File uploaded", Content: jsonBody(ref("FileUploadResponse"))},
						"401": unauthorized,
						"500": {Description: "Storage failure", Content: jsonBody(ref("ErrorResponse"))},
					},
				},
			},
		},
		Components: OpenAPIComponents{
			Schemas: map[string]*Schema{
				"NPVRequest": {
					Type: "object",
					Properties: map[string]*Schema{
						"cash_flows":         numberList("Yearly net cash flows"),
						"discount_rate":      number("Discount rate per year"),
						"energy_savings":     number("Yearly energy savings"),
						"initial_investment": number("Initial investment"),
						"lifetime":           {Type: "integer", Description: "Number of years to discount"},
					},
					Required: []string{"cash_flows", "discount_rate", "energy_savings", "initial_investment", "lifetime"},
				},
				"IIRequest": {
					Type: "object",
					Properties: map[string]*Schema{
						"capex":         number("Capital expenditure"),
						"interest_rate": number("Loan interest rate; accepted but unused"),
						"loan_term":     number("Loan term in years; accepted but unused"),
						"loan_amount":   number("Loan principal"),
						"subsidy":       number("Grant reducing the initial investment"),
					},
					Required: []string{"capex"},
				},
				"OPEXRequest": {
					Type: "object",
					Properties: map[string]*Schema{
						"energy_mix":       numberList("Yearly energy volumes"),
						"energy_prices":    numberList("Yearly unit prices"),
						"maintenance_cost": number("Flat yearly maintenance cost"),
					},
					Required: []string{"energy_mix", "energy_prices", "maintenance_cost"},
				},
				"ROIRequest":   {Type: "object", Properties: projectProperties()},
				"IRRRequest":   {Type: "object", Properties: irrProps},
				"NPVResponse":  withResult("npv", "NPVRequest"),
				"IIResponse":   withResult("ii", "IIRequest"),
				"OPEXResponse": withResult("opex", "OPEXRequest"),
				"ROIResponse":  withResult("roi", "ROIRequest"),
				"IRRResponse":  withResult("irr", "IRRRequest"),
				"HealthResponse": {
					Type: "object",
					Properties: map[string]*Schema{
						"status":    {Type: "string"},
						"timestamp": {Type: "integer"},
					},
				},
				"FileUploadResponse": {
					Type: "object",
					Properties: map[string]*Schema{
						"message":    {Type: "string"},
						"path":       {Type: "string"},
						"public_url": {Type: "string"},
					},
				},
				"StorageFileInfo": {
					Type: "object",
					Properties: map[string]*Schema{
						"name":       {Type: "string"},
						"size":       {Type: "integer"},
						"created_at": {Type: "string"},
						"public_url": {Type: "string"},
					},
				},
				"ErrorResponse": {
					Type: "object",
					Properties: map[string]*Schema{
						"error": {
							Type: "object",
							Properties: map[string]*Schema{
								"code":    {Type: "string"},
								"message": {Type: "string"},
								"details": {Type: "object"},
							},
						},
					},
				},
			},
			SecuritySchemes: map[string]SecurityScheme{
				"bearerAuth": {Type: "http", Scheme: "bearer"},
			},
		},
	}
}

// OpenAPIHandler serves the document as JSON and YAML.
type OpenAPIHandler struct {
	doc *OpenAPIDocument
}

// NewOpenAPIHandler creates a new OpenAPI handler
func NewOpenAPIHandler(doc *OpenAPIDocument) *OpenAPIHandler {
	return &OpenAPIHandler{doc: doc}
}

// JSON handles GET /openapi.json
func (h *OpenAPIHandler) JSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.doc)
}

// YAML handles GET /openapi.yaml
func (h *OpenAPIHandler) YAML(c *gin.Context) {
	out, err := yaml.Marshal(h.doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
}
