package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/embedding"
	"github.com/litflow/litflow/internal/project"
	"github.com/litflow/litflow/internal/secrets"
	"github.com/litflow/litflow/internal/svcctx"
	"github.com/litflow/litflow/internal/types"
)

// EmbeddingListResponse holds the project's embedding strategy list.
type EmbeddingListResponse struct {
	Embeddings []types.Item `json:"embeddings"`
	Degraded   bool         `json:"degraded,omitempty"`
}

// EmbeddingConfigResponse pairs a strategy id with its config.
type EmbeddingConfigResponse struct {
	ID     string           `json:"id"`
	Config embedding.Config `json:"config"`
}

// SaveEmbeddingRequest is the request body for saving an embedding config.
// APIKey, when present, is plaintext and is sealed before persistence.
type SaveEmbeddingRequest struct {
	Config embedding.Config `json:"config"`
	APIKey string           `json:"apiKey,omitempty"`
}

// CreateEmbeddingRequest is the request body for creating a strategy.
type CreateEmbeddingRequest struct {
	Name   string           `json:"name"`
	Config embedding.Config `json:"config"`
}

// ListEmbeddingsEndpoint handles GET /api/embeddings.
type ListEmbeddingsEndpoint struct{}

func (e *ListEmbeddingsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/embeddings", e.handler
}

func (e *ListEmbeddingsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List embedding strategies
//	@Description	Returns the project's embedding strategy list, seeding a default on first call
//	@Tags			embeddings
//	@Produce		json
//	@Success		200	{object}	EmbeddingListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/embeddings [get]
func (e *ListEmbeddingsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.EmbeddingsFrom(r.Context())
	items, err := mgr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EmbeddingListResponse{Embeddings: items})
}

func (e *ListEmbeddingsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "embeddings",
		Short: "List embedding strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EmbeddingListResponse
			if err := client.Get(cmd.Context(), "/api/embeddings", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetEmbeddingEndpoint handles GET /api/embeddings/{id}.
type GetEmbeddingEndpoint struct{}

func (e *GetEmbeddingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/embeddings/{id}", e.handler
}

func (e *GetEmbeddingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get an embedding config
//	@Description	Returns the persisted config for a strategy, falling back to catalog defaults
//	@Tags			embeddings
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	EmbeddingConfigResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/embeddings/{id} [get]
func (e *GetEmbeddingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.EmbeddingsFrom(r.Context())
	cfg, err := mgr.GetConfig(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EmbeddingConfigResponse{ID: id, Config: cfg})
}

func (e *GetEmbeddingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "embedding-get <id>",
		Short: "Get an embedding config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EmbeddingConfigResponse
			if err := client.Get(cmd.Context(), "/api/embeddings/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SaveEmbeddingEndpoint handles PUT /api/embeddings/{id}.
type SaveEmbeddingEndpoint struct{}

func (e *SaveEmbeddingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/embeddings/{id}", e.handler
}

func (e *SaveEmbeddingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Save an embedding config
//	@Description	Validates and persists the config; a plaintext apiKey is sealed before storage
//	@Tags			embeddings
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Strategy id"
//	@Param			request	body		SaveEmbeddingRequest	true	"Config to save"
//	@Success		200		{object}	EmbeddingConfigResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/embeddings/{id} [put]
func (e *SaveEmbeddingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req SaveEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg := req.Config
	if req.APIKey != "" {
		passphrase := sealingPassphrase(r)
		if passphrase == "" {
			writeError(w, http.StatusBadRequest, "no sealing passphrase configured")
			return
		}
		sealed, err := secrets.Seal(req.APIKey, passphrase)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		cfg.APIKey = sealed
	}

	mgr := svcctx.EmbeddingsFrom(r.Context())
	if err := mgr.SaveConfig(r.Context(), id, cfg); err != nil {
		if errors.Is(err, embedding.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, EmbeddingConfigResponse{ID: id, Config: cfg})
}

func (e *SaveEmbeddingEndpoint) Command(getServerURL func() string) *cobra.Command {
	var apiKey string
	cmd := &cobra.Command{
		Use:   "embedding-save <id> <config-json>",
		Short: "Save an embedding config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg embedding.Config
			if err := json.Unmarshal([]byte(args[1]), &cfg); err != nil {
				return fmt.Errorf("invalid config JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var resp EmbeddingConfigResponse
			req := SaveEmbeddingRequest{Config: cfg, APIKey: apiKey}
			if err := client.Put(cmd.Context(), "/api/embeddings/"+args[0], req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Plaintext API key to seal and store")
	return cmd
}

// CreateEmbeddingEndpoint handles POST /api/embeddings.
type CreateEmbeddingEndpoint struct{}

func (e *CreateEmbeddingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/embeddings", e.handler
}

func (e *CreateEmbeddingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create an embedding strategy
//	@Tags			embeddings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateEmbeddingRequest	true	"Strategy to create"
//	@Success		201		{object}	types.Item
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/embeddings [post]
func (e *CreateEmbeddingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	mgr := svcctx.EmbeddingsFrom(r.Context())
	item, err := mgr.Create(r.Context(), req.Name, req.Config)
	if err != nil {
		if errors.Is(err, embedding.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (e *CreateEmbeddingEndpoint) Command(getServerURL func() string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "embedding-create <config-json>",
		Short: "Create an embedding strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg embedding.Config
			if err := json.Unmarshal([]byte(args[0]), &cfg); err != nil {
				return fmt.Errorf("invalid config JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var item types.Item
			req := CreateEmbeddingRequest{Name: name, Config: cfg}
			if err := client.Post(cmd.Context(), "/api/embeddings", req, &item); err != nil {
				return err
			}
			return api.Output(item)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Strategy name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// SetDefaultEmbeddingEndpoint handles POST /api/embeddings/{id}/default.
type SetDefaultEmbeddingEndpoint struct{}

func (e *SetDefaultEmbeddingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/embeddings/{id}/default", e.handler
}

func (e *SetDefaultEmbeddingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Set the default embedding strategy
//	@Tags			embeddings
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	EmbeddingListResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/embeddings/{id}/default [post]
func (e *SetDefaultEmbeddingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.EmbeddingsFrom(r.Context())
	if err := mgr.SetDefault(r.Context(), id); err != nil {
		if errors.Is(err, embedding.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	items, err := mgr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	degraded := syncProjectConfig(r, project.ConfigUpdate{EmbeddingStrategyID: id})
	writeJSON(w, http.StatusOK, EmbeddingListResponse{Embeddings: items, Degraded: degraded})
}

func (e *SetDefaultEmbeddingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "embedding-set-default <id>",
		Short: "Set the default embedding strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp EmbeddingListResponse
			if err := client.Post(cmd.Context(), "/api/embeddings/"+args[0]+"/default", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteEmbeddingEndpoint handles DELETE /api/embeddings/{id}.
type DeleteEmbeddingEndpoint struct{}

func (e *DeleteEmbeddingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/embeddings/{id}", e.handler
}

func (e *DeleteEmbeddingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete an embedding strategy
//	@Tags			embeddings
//	@Produce		json
//	@Param			id	path	string	true	"Strategy id"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/embeddings/{id} [delete]
func (e *DeleteEmbeddingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.EmbeddingsFrom(r.Context())
	if err := mgr.Delete(r.Context(), id); err != nil {
		if errors.Is(err, embedding.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteEmbeddingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "embedding-delete <id>",
		Short: "Delete an embedding strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/embeddings/"+args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

// TestEmbeddingEndpoint handles POST /api/embeddings/{id}/test.
type TestEmbeddingEndpoint struct{}

func (e *TestEmbeddingEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/embeddings/{id}/test", e.handler
}

func (e *TestEmbeddingEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Probe an embedding config
//	@Description	Runs a connection check and a test embed; cloud providers with a sealed key get a real request
//	@Tags			embeddings
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	embedding.ProbeResult
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/embeddings/{id}/test [post]
func (e *TestEmbeddingEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.EmbeddingsFrom(r.Context())
	cfg, err := mgr.GetConfig(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Unseal the stored key when a passphrase is configured. A missing or
	// unusable key downgrades the probe to simulation.
	var apiKey string
	if cfg.APIKey != "" && secrets.IsSealed(cfg.APIKey) {
		if passphrase := sealingPassphrase(r); passphrase != "" {
			if pt, err := secrets.Open(cfg.APIKey, passphrase); err == nil {
				apiKey = pt
			}
		}
	}
	if apiKey == "" {
		if cm := svcctx.ConfigManagerFrom(r.Context()); cm != nil {
			apiKey = cm.Get().ProviderAPIKey(cfg.Provider)
		}
	}

	var prober embedding.Prober
	res := prober.TestEmbedding(r.Context(), cfg, apiKey)
	writeJSON(w, http.StatusOK, res)
}

func (e *TestEmbeddingEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "embedding-test <id>",
		Short: "Probe an embedding config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one strategy id")
			}
			client := api.NewClient(getServerURL())
			var resp embedding.ProbeResult
			if err := client.Post(cmd.Context(), "/api/embeddings/"+args[0]+"/test", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListProvidersEndpoint handles GET /api/embeddings/providers.
type ListProvidersEndpoint struct{}

func (e *ListProvidersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/embedding-providers", e.handler
}

func (e *ListProvidersEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List embedding providers
//	@Description	Returns the provider and model catalog with default dimensions
//	@Tags			embeddings
//	@Produce		json
//	@Success		200	{array}	embedding.Provider
//	@Router			/api/embedding-providers [get]
func (e *ListProvidersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, embedding.Providers())
}

func (e *ListProvidersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "embedding-providers",
		Short: "List the embedding provider catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []embedding.Provider
			if err := client.Get(cmd.Context(), "/api/embedding-providers", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// sealingPassphrase resolves the configured secrets passphrase.
func sealingPassphrase(r *http.Request) string {
	cm := svcctx.ConfigManagerFrom(r.Context())
	if cm == nil {
		return ""
	}
	return cm.Get().Secrets.ResolvedPassphrase()
}
