package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ujjain127/better-wealth/internal/api/middleware"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	w := httptest.NewRecorder()
	middleware.Logger(log)(next).ServeHTTP(w, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
	}

	if entry["level"] != "warn" {
		t.Errorf("Expected warn level for 404, got %v", entry["level"])
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Errorf("Expected status 404, got %v", entry["status"])
	}
	if entry["method"] != http.MethodGet {
		t.Errorf("Expected method GET, got %v", entry["method"])
	}
	if entry["path"] != "/api/portfolio" {
		t.Errorf("Expected path /api/portfolio, got %v", entry["path"])
	}
	if entry["component"] != "http" {
		t.Errorf("Expected component http, got %v", entry["component"])
	}
}
