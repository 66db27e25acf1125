package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

func TestOpenAPIDocument(t *testing.T) {
	doc := NewOpenAPIDocument("test", false)

	npv, ok := doc.Paths["/financial/npv"]
	if !ok || npv.Post == nil {
		t.Fatal("expected POST /financial/npv")
	}
	if !strings.Contains(strings.ToLower(npv.Post.Summary), "net present value") {
		t.Errorf("unexpected npv summary %q", npv.Post.Summary)
	}
	if npv.Post.Security != nil {
		t.Error("financial endpoints should be open")
	}
	for _, path := range []string{"/financial/ii", "/financial/opex", "/financial/roi", "/financial/irr", "/health", "/whoami", "/storage"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("missing path %s", path)
		}
	}

	secured := NewOpenAPIDocument("test", true)
	if secured.Paths["/financial/roi"].Post.Security == nil {
		t.Error("expected bearer security on financial endpoints")
	}
}

func TestOpenAPIHandler(t *testing.T) {
	h := NewOpenAPIHandler(NewOpenAPIDocument("test", false))
	router := gin.New()
	router.GET("/openapi.json", h.JSON)
	router.GET("/openapi.yaml", h.YAML)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("json status = %d", w.Code)
	}
	var fromJSON map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &fromJSON); err != nil {
		t.Fatalf("invalid json document: %v", err)
	}
	if fromJSON["openapi"] != "3.0.3" {
		t.Errorf("unexpected openapi version %v", fromJSON["openapi"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("yaml status = %d", w.Code)
	}
	var fromYAML OpenAPIDocument
	if err := yaml.Unmarshal(w.Body.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid yaml document: %v", err)
	}
	if fromYAML.Paths["/financial/npv"].Post.Summary != "Calculate Net Present Value" {
		t.Errorf("unexpected yaml summary %q", fromYAML.Paths["/financial/npv"].Post.Summary)
	}
	ref := fromYAML.Paths["/financial/npv"].Post.RequestBody.Content["application/json"].Schema.Ref
	if ref != "#/components/schemas/NPVRequest" {
		t.Errorf("unexpected request schema ref %q", ref)
	}
}
