package response

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, map[string]int{"count": 2})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Success || body.Data["count"] != 2 {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestRespondJSON_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusNoContent, nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestRespondError(t *testing.T) {
	t.Run("with field details", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"name": "name is required"})

		var body ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Success {
			t.Error("Expected success=false")
		}
		if body.Error != "validation failed" {
			t.Errorf("Expected error message, got %q", body.Error)
		}
		details, ok := body.Details.(map[string]any)
		if !ok || details["name"] != "name is required" {
			t.Errorf("Expected field details, got %#v", body.Details)
		}
	})

	t.Run("empty details are omitted", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondError(w, http.StatusNotFound, "portfolio not found", "")

		var raw map[string]any
		if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, ok := raw["details"]; ok {
			t.Errorf("Expected no details key, got %v", raw)
		}
	})
}

func TestRespondJSON_EncodeFailure(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, http.StatusOK, map[string]float64{"total": math.Inf(1)})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Success || body.Error != "failed to encode response" {
		t.Errorf("Unexpected body: %+v", body)
	}
}
