package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/steelab-tech/mcp-agent/internal/tools"
	"github.com/steelab-tech/mcp-agent/internal/widgets"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testRouter(t *testing.T, apiKeyHash string) http.Handler {
	t.Helper()
	reg := tools.NewRegistry(zap.NewNop())
	err := reg.Register(&tools.Tool{
		Name:         "echo",
		Description:  "echoes its argument",
		TemplateKind: widgets.KindBrandList,
		FallbackText: "echo failed",
		InputSchema: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{"value": map[string]any{"type": "string"}},
			"required":             []any{"value"},
			"additionalProperties": false,
		},
		Handler: func(_ context.Context, args map[string]any) (*tools.Result, error) {
			return &tools.Result{
				Text:              "ok",
				StructuredContent: map[string]any{"value": args["value"]},
			}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewRouter(&Dependencies{
		Registry:   reg,
		Logger:     zap.NewNop(),
		APIKeyHash: apiKeyHash,
		CacheTTL:   time.Minute,
	})
}

func callTool(t *testing.T, router http.Handler, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp/tools/call", bytes.NewBufferString(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestToolCall(t *testing.T) {
	router := testRouter(t, "")

	rec := callTool(t, router, `{"name":"echo","arguments":{"value":"hi"}}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp CallResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Text != "ok" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.StructuredContent["value"] != "hi" {
		t.Errorf("structuredContent = %v", resp.StructuredContent)
	}
	if resp.TemplateURI != "ui://widget/brand-list.html" {
		t.Errorf("templateUri = %q", resp.TemplateURI)
	}
}

func TestToolCall_Errors(t *testing.T) {
	router := testRouter(t, "")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"invalid json", `{`, http.StatusBadRequest, ""},
		{"missing name", `{"arguments":{}}`, http.StatusBadRequest, ""},
		{"unknown tool", `{"name":"nope"}`, http.StatusNotFound, ""},
		{"validation failure", `{"name":"echo","arguments":{}}`, http.StatusBadRequest, ""},
		{"wrong type", `{"name":"echo","arguments":{"value":7}}`, http.StatusBadRequest, "/value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := callTool(t, router, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var er ErrorResp
			if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
				t.Fatal(err)
			}
			if er.Detail == "" {
				t.Error("error body must carry detail")
			}
			if tt.wantField != "" && er.Field != tt.wantField {
				t.Errorf("field = %q, want %q", er.Field, tt.wantField)
			}
		})
	}
}

func TestListTools(t *testing.T) {
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Tools []tools.Descriptor `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tools) != 1 || resp.Tools[0].Name != "echo" {
		t.Errorf("tools = %v", resp.Tools)
	}
	if resp.Tools[0].TemplateURI != "ui://widget/brand-list.html" {
		t.Errorf("templateUri = %q", resp.Tools[0].TemplateURI)
	}
}

func TestWidgetDocument(t *testing.T) {
	router := testRouter(t, "")

	for _, path := range []string{"/mcp/widgets/product-detail", "/mcp/widgets/product-detail.html"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s: content-type = %q", path, ct)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "<!DOCTYPE html>") {
			t.Errorf("%s: not a full document", path)
		}
		// Served templates never carry pre-injected data.
		if strings.Contains(body, "__STRUCTURED_CONTENT__ =") {
			t.Errorf("%s: document must rely on the host bridge for data", path)
		}
	}
}

func TestWidgetDocument_Unknown(t *testing.T) {
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/mcp/widgets/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAnalytics_NoReader(t *testing.T) {
	router := testRouter(t, "")

	for _, path := range []string{"/mcp/events?type=search", "/mcp/analytics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503 without a reader", path, rec.Code)
		}
	}
}

func TestAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("mck_secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	router := testRouter(t, string(hash))

	body := `{"name":"echo","arguments":{"value":"hi"}}`

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic mck_secret", http.StatusUnauthorized},
		{"wrong key", "Bearer mck_other", http.StatusUnauthorized},
		{"valid key", "Bearer mck_secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.authHeader != "" {
				h.Set("Authorization", tt.authHeader)
			}
			rec := callTool(t, router, body, h)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	// The read-only routes stay open even with auth configured.
	req := httptest.NewRequest(http.MethodGet, "/mcp/tools", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /mcp/tools with auth configured: status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := testRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/mcp/tools/call", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS headers")
	}
}
