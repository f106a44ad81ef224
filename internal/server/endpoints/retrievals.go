package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/project"
	"github.com/litflow/litflow/internal/retrieval"
	"github.com/litflow/litflow/internal/svcctx"
	"github.com/litflow/litflow/internal/types"
)

// RetrievalListResponse holds the project's retrieval strategy list.
// Degraded is set when a default change committed locally but the project
// service could not be notified.
type RetrievalListResponse struct {
	Retrievals []types.Item `json:"retrievals"`
	Degraded   bool         `json:"degraded,omitempty"`
}

// RetrievalConfigResponse pairs a strategy id with its tagged config.
type RetrievalConfigResponse struct {
	ID     string                   `json:"id"`
	Config retrieval.StrategyConfig `json:"config"`
}

// CreateRetrievalRequest is the request body for creating a strategy.
type CreateRetrievalRequest struct {
	Name   string                   `json:"name"`
	Config retrieval.StrategyConfig `json:"config"`
}

// BuildRetrievalRequest carries raw form fields to the payload builder.
type BuildRetrievalRequest struct {
	Type   retrieval.StrategyType `json:"type"`
	Fields retrieval.FormFields   `json:"fields"`
}

// RenameRetrievalRequest is the request body for renaming a strategy.
type RenameRetrievalRequest struct {
	Name string `json:"name"`
}

// ListRetrievalsEndpoint handles GET /api/retrievals.
type ListRetrievalsEndpoint struct{}

func (e *ListRetrievalsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/retrievals", e.handler
}

func (e *ListRetrievalsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List retrieval strategies
//	@Description	Returns the project's retrieval strategy list, seeding defaults on first call
//	@Tags			retrievals
//	@Produce		json
//	@Success		200	{object}	RetrievalListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/retrievals [get]
func (e *ListRetrievalsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.RetrievalsFrom(r.Context())
	items, err := mgr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, RetrievalListResponse{Retrievals: items})
}

func (e *ListRetrievalsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrievals",
		Short: "List retrieval strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RetrievalListResponse
			if err := client.Get(cmd.Context(), "/api/retrievals", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetRetrievalEndpoint handles GET /api/retrievals/{id}.
type GetRetrievalEndpoint struct{}

func (e *GetRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/retrievals/{id}", e.handler
}

func (e *GetRetrievalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a retrieval config
//	@Tags			retrievals
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	RetrievalConfigResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/retrievals/{id} [get]
func (e *GetRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.RetrievalsFrom(r.Context())
	sc, err := mgr.GetConfig(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, RetrievalConfigResponse{ID: id, Config: sc})
}

func (e *GetRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-get <id>",
		Short: "Get a retrieval config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RetrievalConfigResponse
			if err := client.Get(cmd.Context(), "/api/retrievals/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SaveRetrievalEndpoint handles PUT /api/retrievals/{id}.
type SaveRetrievalEndpoint struct{}

func (e *SaveRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/retrievals/{id}", e.handler
}

func (e *SaveRetrievalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Save a retrieval config
//	@Tags			retrievals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Strategy id"
//	@Param			request	body		retrieval.StrategyConfig	true	"Tagged config to save"
//	@Success		200		{object}	RetrievalConfigResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/retrievals/{id} [put]
func (e *SaveRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var sc retrieval.StrategyConfig
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.RetrievalsFrom(r.Context())
	if err := mgr.SaveConfig(r.Context(), id, sc); err != nil {
		if errors.Is(err, retrieval.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, RetrievalConfigResponse{ID: id, Config: sc})
}

func (e *SaveRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-save <id> <config-json>",
		Short: "Save a retrieval config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc retrieval.StrategyConfig
			if err := json.Unmarshal([]byte(args[1]), &sc); err != nil {
				return fmt.Errorf("invalid config JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var resp RetrievalConfigResponse
			if err := client.Put(cmd.Context(), "/api/retrievals/"+args[0], sc, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// CreateRetrievalEndpoint handles POST /api/retrievals.
type CreateRetrievalEndpoint struct{}

func (e *CreateRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/retrievals", e.handler
}

func (e *CreateRetrievalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a retrieval strategy
//	@Tags			retrievals
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateRetrievalRequest	true	"Strategy to create"
//	@Success		201		{object}	types.Item
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/retrievals [post]
func (e *CreateRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateRetrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.RetrievalsFrom(r.Context())
	item, err := mgr.Create(r.Context(), req.Name, req.Config)
	if err != nil {
		if errors.Is(err, retrieval.ErrUnknownStrategy) || errors.Is(err, retrieval.ErrInvalidField) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (e *CreateRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "retrieval-create <config-json>",
		Short: "Create a retrieval strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sc retrieval.StrategyConfig
			if err := json.Unmarshal([]byte(args[0]), &sc); err != nil {
				return fmt.Errorf("invalid config JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var item types.Item
			req := CreateRetrievalRequest{Name: name, Config: sc}
			if err := client.Post(cmd.Context(), "/api/retrievals", req, &item); err != nil {
				return err
			}
			return api.Output(item)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Strategy name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// SetDefaultRetrievalEndpoint handles POST /api/retrievals/{id}/default.
type SetDefaultRetrievalEndpoint struct{}

func (e *SetDefaultRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/retrievals/{id}/default", e.handler
}

func (e *SetDefaultRetrievalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Set the default retrieval strategy
//	@Tags			retrievals
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	RetrievalListResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/retrievals/{id}/default [post]
func (e *SetDefaultRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.RetrievalsFrom(r.Context())
	if err := mgr.SetDefault(r.Context(), id); err != nil {
		if errors.Is(err, retrieval.ErrNotFound) {
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
	degraded := syncProjectConfig(r, project.ConfigUpdate{RetrievalStrategyID: id})
	writeJSON(w, http.StatusOK, RetrievalListResponse{Retrievals: items, Degraded: degraded})
}

func (e *SetDefaultRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-set-default <id>",
		Short: "Set the default retrieval strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RetrievalListResponse
			if err := client.Post(cmd.Context(), "/api/retrievals/"+args[0]+"/default", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteRetrievalEndpoint handles DELETE /api/retrievals/{id}.
type DeleteRetrievalEndpoint struct{}

func (e *DeleteRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/retrievals/{id}", e.handler
}

func (e *DeleteRetrievalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete a retrieval strategy
//	@Tags			retrievals
//	@Param			id	path	string	true	"Strategy id"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/retrievals/{id} [delete]
func (e *DeleteRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.RetrievalsFrom(r.Context())
	if err := mgr.Delete(r.Context(), id); err != nil {
		if errors.Is(err, retrieval.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-delete <id>",
		Short: "Delete a retrieval strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/retrievals/"+args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

// RenameRetrievalEndpoint handles PATCH /api/retrievals/{id}.
type RenameRetrievalEndpoint struct{}

func (e *RenameRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PATCH", "/api/retrievals/{id}", e.handler
}

func (e *RenameRetrievalEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Rename a retrieval strategy
//	@Tags			retrievals
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Strategy id"
//	@Param			request	body		RenameRetrievalRequest	true	"New name"
//	@Success		200		{object}	RetrievalListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/retrievals/{id} [patch]
func (e *RenameRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req RenameRetrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	mgr := svcctx.RetrievalsFrom(r.Context())
	if err := mgr.Rename(r.Context(), id, req.Name); err != nil {
		if errors.Is(err, retrieval.ErrNotFound) {
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
	writeJSON(w, http.StatusOK, RetrievalListResponse{Retrievals: items})
}

func (e *RenameRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-rename <id> <name>",
		Short: "Rename a retrieval strategy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp RetrievalListResponse
			req := RenameRetrievalRequest{Name: args[1]}
			if err := client.Patch(cmd.Context(), "/api/retrievals/"+args[0], req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// RetrievalCatalogEndpoint handles GET /api/retrieval-catalog.
type RetrievalCatalogEndpoint struct{}

func (e *RetrievalCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/retrieval-catalog", e.handler
}

func (e *RetrievalCatalogEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List retrieval strategy variants
//	@Description	Returns the five strategy variants with display metadata
//	@Tags			retrievals
//	@Produce		json
//	@Success		200	{array}	retrieval.Descriptor
//	@Router			/api/retrieval-catalog [get]
func (e *RetrievalCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, retrieval.Catalog())
}

func (e *RetrievalCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-catalog",
		Short: "List the retrieval strategy variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp []retrieval.Descriptor
			if err := client.Get(cmd.Context(), "/api/retrieval-catalog", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// BuildRetrievalEndpoint handles POST /api/retrievals/build. It turns raw
// form fields into a validated config payload without persisting anything.
type BuildRetrievalEndpoint struct{}

func (e *BuildRetrievalEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/retrievals/build", e.handler
}

func (e *BuildRetrievalEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Build a retrieval payload from form fields
//	@Description	Coerces and validates raw field values into the strategy's config shape
//	@Tags			retrievals
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BuildRetrievalRequest	true	"Strategy type and raw fields"
//	@Success		200		{object}	retrieval.StrategyConfig
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/retrievals/build [post]
func (e *BuildRetrievalEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req BuildRetrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	cfg, err := retrieval.BuildConfig(req.Type, req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, retrieval.StrategyConfig{Type: req.Type, Config: cfg})
}

func (e *BuildRetrievalEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "retrieval-build <type> <fields-json>",
		Short: "Build a retrieval payload from form fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields retrieval.FormFields
			if err := json.Unmarshal([]byte(args[1]), &fields); err != nil {
				return fmt.Errorf("invalid fields JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var resp retrieval.StrategyConfig
			req := BuildRetrievalRequest{Type: retrieval.StrategyType(args[0]), Fields: fields}
			if err := client.Post(cmd.Context(), "/api/retrievals/build", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
