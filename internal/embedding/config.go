// Package embedding implements the embedding-strategy configuration model:
// provider catalog, config validation and defaults, persistence of the
// project embedding list, and connection/embedding probes.
package embedding

import (
	"errors"
	"fmt"
)

// Runtime distinguishes locally hosted models from cloud APIs.
type Runtime string

const (
	RuntimeLocal Runtime = "local"
	RuntimeCloud Runtime = "cloud"
)

// Batch size and timeout bounds enforced on save.
const (
	MinBatchSize = 1
	MaxBatchSize = 512
	MinTimeout   = 10  // seconds
	MaxTimeout   = 600 // seconds
)

// ErrInvalidConfig is returned when an embedding config fails validation.
var ErrInvalidConfig = errors.New("invalid embedding config")

// Config is the persisted embedding strategy configuration.
// Provider-specific fields are optional and only read for the matching
// provider family.
type Config struct {
	Runtime   Runtime `json:"runtime"`
	Provider  string  `json:"provider"`
	ModelID   string  `json:"modelId"`
	BaseURL   string  `json:"baseUrl,omitempty"`
	Dimension int     `json:"dimension"`
	BatchSize int     `json:"batchSize"`
	Timeout   int     `json:"timeout"` // seconds

	// OpenAI-compatible providers
	Organization string `json:"organization,omitempty"`
	MaxRetries   int    `json:"maxRetries,omitempty"`

	// Azure-style providers
	Deployment string `json:"deployment,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`

	// Google-style providers
	ProjectID string `json:"projectId,omitempty"`

	// Google and AWS style providers
	Region string `json:"region,omitempty"`

	// APIKey holds the sealed (encrypted) key envelope, never plaintext.
	APIKey string `json:"apiKey,omitempty"`
}

// Validate checks the numeric ranges and required fields.
func (c *Config) Validate() error {
	if c.Runtime != RuntimeLocal && c.Runtime != RuntimeCloud {
		return fmt.Errorf("%w: runtime must be local or cloud, got %q", ErrInvalidConfig, c.Runtime)
	}
	if c.Provider == "" {
		return fmt.Errorf("%w: provider is required", ErrInvalidConfig)
	}
	if c.ModelID == "" {
		return fmt.Errorf("%w: modelId is required", ErrInvalidConfig)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be > 0, got %d", ErrInvalidConfig, c.Dimension)
	}
	if c.BatchSize < MinBatchSize || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: batchSize must be in [%d, %d], got %d",
			ErrInvalidConfig, MinBatchSize, MaxBatchSize, c.BatchSize)
	}
	if c.Timeout < MinTimeout || c.Timeout > MaxTimeout {
		return fmt.Errorf("%w: timeout must be in [%d, %d] seconds, got %d",
			ErrInvalidConfig, MinTimeout, MaxTimeout, c.Timeout)
	}
	return nil
}

// Model is one embedding model a provider offers.
type Model struct {
	ID        string `json:"id"`
	Dimension int    `json:"dimension"`
}

// Provider describes one embedding provider in the catalog.
type Provider struct {
	Name           string  `json:"name"`
	Runtime        Runtime `json:"runtime"`
	DefaultBaseURL string  `json:"defaultBaseUrl,omitempty"`
	Models         []Model `json:"models"`
}

// Providers returns the embedding provider catalog.
func Providers() []Provider {
	return []Provider{
		{
			Name:    "sentence-transformers",
			Runtime: RuntimeLocal,
			Models: []Model{
				{ID: "all-MiniLM-L6-v2", Dimension: 384},
				{ID: "all-mpnet-base-v2", Dimension: 768},
				{ID: "paraphrase-multilingual-MiniLM-L12-v2", Dimension: 384},
			},
		},
		{
			Name:           "ollama",
			Runtime:        RuntimeLocal,
			DefaultBaseURL: "http://localhost:11434",
			Models: []Model{
				{ID: "nomic-embed-text", Dimension: 768},
				{ID: "mxbai-embed-large", Dimension: 1024},
			},
		},
		{
			Name:           "openai",
			Runtime:        RuntimeCloud,
			DefaultBaseURL: "https://api.openai.com/v1",
			Models: []Model{
				{ID: "text-embedding-3-small", Dimension: 1536},
				{ID: "text-embedding-3-large", Dimension: 3072},
				{ID: "text-embedding-ada-002", Dimension: 1536},
			},
		},
		{
			Name:    "azure-openai",
			Runtime: RuntimeCloud,
			Models: []Model{
				{ID: "text-embedding-3-small", Dimension: 1536},
				{ID: "text-embedding-3-large", Dimension: 3072},
			},
		},
		{
			Name:    "google-vertex",
			Runtime: RuntimeCloud,
			Models: []Model{
				{ID: "text-embedding-004", Dimension: 768},
				{ID: "textembedding-gecko@003", Dimension: 768},
			},
		},
		{
			Name:    "aws-bedrock",
			Runtime: RuntimeCloud,
			Models: []Model{
				{ID: "amazon.titan-embed-text-v2:0", Dimension: 1024},
				{ID: "cohere.embed-english-v3", Dimension: 1024},
			},
		},
	}
}

// LookupProvider returns a catalog entry by name.
func LookupProvider(name string) (*Provider, bool) {
	for _, p := range Providers() {
		if p.Name == name {
			return &p, true
		}
	}
	return nil, false
}

// DefaultConfigFor derives a config for a provider and model: runtime and
// base URL from the provider, dimension from the model, and the standard
// batch size and timeout defaults. Unknown providers or models keep the
// caller's choice with zeroed derived fields so validation can flag them.
func DefaultConfigFor(provider, modelID string) Config {
	cfg := Config{
		Provider:  provider,
		ModelID:   modelID,
		BatchSize: 32,
		Timeout:   60,
	}

	p, ok := LookupProvider(provider)
	if !ok {
		return cfg
	}
	cfg.Runtime = p.Runtime
	cfg.BaseURL = p.DefaultBaseURL
	for _, m := range p.Models {
		if m.ID == modelID {
			cfg.Dimension = m.Dimension
			break
		}
	}
	return cfg
}

// DefaultConfig is the seed config used when nothing is persisted.
func DefaultConfig() Config {
	cfg := DefaultConfigFor("sentence-transformers", "all-MiniLM-L6-v2")
	return cfg
}
