package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// simulatedProbeDelay approximates the latency of a real probe when no
// credentials are available to issue one.
const simulatedProbeDelay = 250 * time.Millisecond

// ProbeResult reports the outcome of a connection or embedding probe.
type ProbeResult struct {
	OK        bool          `json:"ok"`
	Message   string        `json:"message"`
	Dimension int           `json:"dimension,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Prober runs connectivity and embedding probes for a config.
// When an API key is supplied for a cloud provider, TestEmbedding issues a
// real request against the provider's OpenAI-compatible embeddings API;
// otherwise both probes are simulated with a fixed delay.
type Prober struct {
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// CheckConnection verifies the configured endpoint is reachable.
// This probe is always simulated: it only exercises the context path.
func (p *Prober) CheckConnection(ctx context.Context, cfg Config) ProbeResult {
	start := time.Now()
	select {
	case <-ctx.Done():
		return ProbeResult{Message: ctx.Err().Error(), Elapsed: time.Since(start)}
	case <-time.After(simulatedProbeDelay):
	}
	return ProbeResult{
		OK:      true,
		Message: fmt.Sprintf("connected to %s", cfg.Provider),
		Elapsed: time.Since(start),
	}
}

// TestEmbedding embeds a short probe text and reports the model's actual
// dimension. apiKey is the plaintext key, already unsealed by the caller.
func (p *Prober) TestEmbedding(ctx context.Context, cfg Config, apiKey string) ProbeResult {
	start := time.Now()

	if cfg.Runtime != RuntimeCloud || apiKey == "" {
		select {
		case <-ctx.Done():
			return ProbeResult{Message: ctx.Err().Error(), Elapsed: time.Since(start)}
		case <-time.After(simulatedProbeDelay):
		}
		return ProbeResult{
			OK:        true,
			Message:   fmt.Sprintf("simulated embedding with %s", cfg.ModelID),
			Dimension: cfg.Dimension,
			Elapsed:   time.Since(start),
		}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Organization != "" {
		opts = append(opts, option.WithOrganization(cfg.Organization))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	if p.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(p.HTTPClient))
	}
	client := openai.NewClient(opts...)

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Embeddings.New(probeCtx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{"litflow embedding probe"},
		},
		Model: openai.EmbeddingModel(cfg.ModelID),
	})
	if err != nil {
		return ProbeResult{
			Message: fmt.Sprintf("embedding request failed: %v", err),
			Elapsed: time.Since(start),
		}
	}
	if len(resp.Data) == 0 {
		return ProbeResult{
			Message: "provider returned no embeddings",
			Elapsed: time.Since(start),
		}
	}

	return ProbeResult{
		OK:        true,
		Message:   fmt.Sprintf("embedded with %s", cfg.ModelID),
		Dimension: len(resp.Data[0].Embedding),
		Elapsed:   time.Since(start),
	}
}
