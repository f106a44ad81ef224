package embedding

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad runtime", func(c *Config) { c.Runtime = "edge" }},
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"empty model", func(c *Config) { c.ModelID = "" }},
		{"zero dimension", func(c *Config) { c.Dimension = 0 }},
		{"negative dimension", func(c *Config) { c.Dimension = -4 }},
		{"batch too small", func(c *Config) { c.BatchSize = 0 }},
		{"batch too large", func(c *Config) { c.BatchSize = MaxBatchSize + 1 }},
		{"timeout too small", func(c *Config) { c.Timeout = MinTimeout - 1 }},
		{"timeout too large", func(c *Config) { c.Timeout = MaxTimeout + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("got %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigValidateBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BatchSize = MinBatchSize
	cfg.Timeout = MinTimeout
	if err := cfg.Validate(); err != nil {
		t.Fatalf("lower bounds should be accepted: %v", err)
	}
	cfg.BatchSize = MaxBatchSize
	cfg.Timeout = MaxTimeout
	if err := cfg.Validate(); err != nil {
		t.Fatalf("upper bounds should be accepted: %v", err)
	}
}

func TestDefaultConfigFor(t *testing.T) {
	cfg := DefaultConfigFor("openai", "text-embedding-3-small")
	if cfg.Runtime != RuntimeCloud {
		t.Errorf("runtime = %q, want cloud", cfg.Runtime)
	}
	if cfg.Dimension != 1536 {
		t.Errorf("dimension = %d, want 1536", cfg.Dimension)
	}
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("baseUrl = %q", cfg.BaseURL)
	}
	if cfg.BatchSize != 32 || cfg.Timeout != 60 {
		t.Errorf("batch/timeout = %d/%d, want 32/60", cfg.BatchSize, cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("derived config should validate: %v", err)
	}

	// Unknown providers and models leave derived fields zeroed so that
	// Validate rejects them.
	unknownProvider := DefaultConfigFor("nope", "x")
	if err := unknownProvider.Validate(); err == nil {
		t.Error("unknown provider should fail validation")
	}
	unknownModel := DefaultConfigFor("openai", "nope")
	if err := unknownModel.Validate(); err == nil {
		t.Error("unknown model should fail validation")
	}
}

func TestLookupProvider(t *testing.T) {
	for _, id := range []string{"sentence-transformers", "ollama", "openai", "azure-openai", "google-vertex", "aws-bedrock"} {
		if _, ok := LookupProvider(id); !ok {
			t.Errorf("provider %q missing from catalog", id)
		}
	}
	if _, ok := LookupProvider("cohere"); ok {
		t.Error("unexpected provider in catalog")
	}
}
