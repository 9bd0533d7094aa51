package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ujjain127/better-wealth/internal/model"
	"github.com/ujjain127/better-wealth/internal/testutil"
)

func setupSystemHandler(t *testing.T) (*SystemHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ss := testutil.NewTestSystemService(t, db)
	return NewSystemHandler(ss), db
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		handler, _ := setupSystemHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		env := testutil.DecodeEnvelope[model.HealthStatus](t, w)
		if !env.Success {
			t.Error("Expected success=true")
		}
		if env.Data.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", env.Data.Status)
		}
		if env.Data.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", env.Data.Database)
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		handler, db := setupSystemHandler(t)

		// Close the database connection to simulate failure
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}

		env := testutil.DecodeEnvelope[any](t, w)
		if env.Success {
			t.Error("Expected success=false")
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	t.Run("returns application and schema version", func(t *testing.T) {
		handler, _ := setupSystemHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		env := testutil.DecodeEnvelope[model.VersionInfo](t, w)
		if env.Data.AppVersion == "" {
			t.Error("Expected app version to be set")
		}
		if env.Data.DbVersion != 4 {
			t.Errorf("Expected schema version 4, got %d", env.Data.DbVersion)
		}
	})

	t.Run("returns 500 when database is unavailable", func(t *testing.T) {
		handler, db := setupSystemHandler(t)
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}
