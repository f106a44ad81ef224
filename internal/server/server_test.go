package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/litflow/litflow/internal/server/endpoints"
	"github.com/litflow/litflow/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{
		Host:  "127.0.0.1",
		Port:  18580,
		Store: store.NewMemStore(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv
}

func TestServer_New_Defaults(t *testing.T) {
	srv := newTestServer(t)

	if got, want := srv.Addr(), "127.0.0.1:18580"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if srv.Services() != nil {
		t.Error("Services() != nil before Start")
	}
}

func TestServer_RequireInit_Returns503(t *testing.T) {
	srv := newTestServer(t)

	// No initServices call: endpoints that need the store must refuse.
	req := httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var errResp endpoints.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if errResp.Error == "" {
		t.Error("error message is empty")
	}
}

func TestServer_HealthBeforeInit(t *testing.T) {
	srv := newTestServer(t)

	// Health does not require init.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServer_Endpoints_AfterInit(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.initServices(); err != nil {
		t.Fatalf("initServices() error = %v", err)
	}

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var health endpoints.HealthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("health.Status = %q, want %q", health.Status, "ok")
		}
	})

	t.Run("ready", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/status", nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var status endpoints.StatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if status.Server != "running" {
			t.Errorf("status.Server = %q, want %q", status.Server, "running")
		}
		if status.Store != "healthy" {
			t.Errorf("status.Store = %q, want %q", status.Store, "healthy")
		}
	})

	t.Run("services_wired", func(t *testing.T) {
		svcs := srv.Services()
		if svcs == nil {
			t.Fatal("Services() returned nil after init")
		}
		if svcs.Store == nil || svcs.Bus == nil {
			t.Error("store or bus not wired")
		}
		if svcs.Embeddings == nil || svcs.Retrievals == nil || svcs.Processing == nil {
			t.Error("managers not wired")
		}
	})
}

func TestServer_NoProjectClientWithoutConfig(t *testing.T) {
	srv := newTestServer(t)
	if err := srv.initServices(); err != nil {
		t.Fatalf("initServices() error = %v", err)
	}
	if srv.Services().Projects != nil {
		t.Error("project client wired without config")
	}
}
