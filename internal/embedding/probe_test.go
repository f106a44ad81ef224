package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProber_CheckConnection(t *testing.T) {
	var p Prober
	res := p.CheckConnection(t.Context(), DefaultConfig())
	if !res.OK {
		t.Fatalf("CheckConnection failed: %s", res.Message)
	}
	if res.Elapsed < simulatedProbeDelay {
		t.Errorf("elapsed %v shorter than the simulated delay", res.Elapsed)
	}
}

func TestProber_CheckConnection_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var p Prober
	res := p.CheckConnection(ctx, DefaultConfig())
	if res.OK {
		t.Fatal("canceled probe reported OK")
	}
}

func TestProber_TestEmbedding_Simulated(t *testing.T) {
	var p Prober
	cfg := DefaultConfig() // local runtime, no key

	res := p.TestEmbedding(t.Context(), cfg, "")
	if !res.OK {
		t.Fatalf("simulated probe failed: %s", res.Message)
	}
	if res.Dimension != cfg.Dimension {
		t.Errorf("dimension = %d, want %d", res.Dimension, cfg.Dimension)
	}
}

func TestProber_TestEmbedding_Cloud(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/embeddings") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		emb := make([]float64, 1536)
		resp := map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": emb},
			},
			"usage": map[string]int{"prompt_tokens": 4, "total_tokens": 4},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	cfg := DefaultConfigFor("openai", "text-embedding-3-small")
	cfg.BaseURL = srv.URL

	var p Prober
	res := p.TestEmbedding(t.Context(), cfg, "test-key")
	if !res.OK {
		t.Fatalf("cloud probe failed: %s", res.Message)
	}
	if res.Dimension != 1536 {
		t.Errorf("dimension = %d, want 1536", res.Dimension)
	}
}

func TestProber_TestEmbedding_CloudError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := DefaultConfigFor("openai", "text-embedding-3-small")
	cfg.BaseURL = srv.URL
	cfg.MaxRetries = 1
	cfg.Timeout = 10

	var p Prober
	res := p.TestEmbedding(t.Context(), cfg, "bad-key")
	if res.OK {
		t.Fatal("probe with rejected key reported OK")
	}
	if res.Message == "" {
		t.Error("error probe has empty message")
	}
}
