// Package project talks to the project/dataset REST API. The service is an
// opaque collaborator: it lists datasets, accepts project configuration
// updates, and triggers re-ingestion runs. Callers treat failures as
// non-fatal and fall back to local-only state.
package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// ErrServer wraps non-2xx responses from the project API.
var ErrServer = errors.New("project API error")

// Dataset is one ingestable dataset known to the project service.
type Dataset struct {
	Name          string `json:"name"`
	DocumentCount int    `json:"documentCount"`
	StrategyID    string `json:"strategyId,omitempty"`
	LastIngested  string `json:"lastIngested,omitempty"`
}

// ConfigUpdate carries the strategy assignments pushed to the project.
type ConfigUpdate struct {
	EmbeddingStrategyID  string `json:"embeddingStrategyId,omitempty"`
	RetrievalStrategyID  string `json:"retrievalStrategyId,omitempty"`
	ProcessingStrategyID string `json:"processingStrategyId,omitempty"`
}

// ReingestRequest names the datasets to re-ingest under a strategy.
type ReingestRequest struct {
	StrategyID string   `json:"strategyId"`
	Datasets   []string `json:"datasets"`
}

// ReingestResponse acknowledges a triggered run.
type ReingestResponse struct {
	JobID    string `json:"jobId"`
	Accepted int    `json:"accepted"`
}

// Client is an HTTP client for the project API. Transient failures and 5xx
// responses are retried a bounded number of times; 4xx responses fail fast.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAttempts bounds the retry attempts per call.
func WithAttempts(n uint) Option {
	return func(c *Client) { c.attempts = n }
}

// WithDelay sets the base delay between retries.
func WithDelay(d time.Duration) Option {
	return func(c *Client) { c.delay = d }
}

// NewClient creates a project API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		attempts:   defaultAttempts,
		delay:      defaultDelay,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ListDatasets returns the project's datasets.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var out []Dataset
	if err := c.do(ctx, http.MethodGet, "/api/datasets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProjectConfig pushes strategy assignments to the project service.
func (c *Client) UpdateProjectConfig(ctx context.Context, upd ConfigUpdate) error {
	return c.do(ctx, http.MethodPatch, "/api/project/config", upd, nil)
}

// TriggerReingest asks the project service to re-ingest datasets with the
// named processing strategy.
func (c *Client) TriggerReingest(ctx context.Context, req ReingestRequest) (ReingestResponse, error) {
	var out ReingestResponse
	if err := c.do(ctx, http.MethodPost, "/api/project/reingest", req, &out); err != nil {
		return ReingestResponse{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	return retry.Do(
		func() error {
			var reader io.Reader
			if payload != nil {
				reader = bytes.NewReader(payload)
			}
			req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			return c.handleResponse(resp, result)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) handleResponse(resp *http.Response, result any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		msg := string(body)
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		err := fmt.Errorf("%w (%d): %s", ErrServer, resp.StatusCode, msg)
		if resp.StatusCode < 500 {
			return retry.Unrecoverable(err)
		}
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// errorResponse matches the service's error format.
type errorResponse struct {
	Error string `json:"error"`
}
