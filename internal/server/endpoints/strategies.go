package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/processing"
	"github.com/litflow/litflow/internal/project"
	"github.com/litflow/litflow/internal/svcctx"
)

// StrategyListResponse holds the project's processing strategies.
type StrategyListResponse struct {
	Strategies []processing.Strategy `json:"strategies"`
	Degraded   bool                  `json:"degraded,omitempty"`
}

// CreateStrategyRequest is the request body for creating a strategy.
type CreateStrategyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateStrategyRequest carries partial updates for a strategy.
type UpdateStrategyRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DuplicateStrategyRequest names the copy made of an existing strategy.
type DuplicateStrategyRequest struct {
	Name string `json:"name"`
}

// ReprocessStatusResponse reports the reprocess-needed flag for a strategy.
type ReprocessStatusResponse struct {
	StrategyID string `json:"strategyId"`
	Needed     bool   `json:"needed"`
}

// SetReprocessRequest sets the reprocess-needed flag.
type SetReprocessRequest struct {
	Needed bool `json:"needed"`
}

// ReingestStrategyRequest names the datasets to re-ingest.
type ReingestStrategyRequest struct {
	Datasets []string `json:"datasets"`
}

// ListStrategiesEndpoint handles GET /api/strategies.
type ListStrategiesEndpoint struct{}

func (e *ListStrategiesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/strategies", e.handler
}

func (e *ListStrategiesEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List processing strategies
//	@Description	Returns built-in and custom strategies with exactly one marked default
//	@Tags			strategies
//	@Produce		json
//	@Success		200	{object}	StrategyListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies [get]
func (e *ListStrategiesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ProcessingFrom(r.Context())
	list, err := mgr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StrategyListResponse{Strategies: list})
}

func (e *ListStrategiesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List processing strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StrategyListResponse
			if err := client.Get(cmd.Context(), "/api/strategies", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetStrategyEndpoint handles GET /api/strategies/{id}.
type GetStrategyEndpoint struct{}

func (e *GetStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/strategies/{id}", e.handler
}

func (e *GetStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a processing strategy
//	@Tags			strategies
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	processing.Strategy
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id} [get]
func (e *GetStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ProcessingFrom(r.Context())
	s, err := mgr.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, processing.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (e *GetStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy-get <id>",
		Short: "Get a processing strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp processing.Strategy
			if err := client.Get(cmd.Context(), "/api/strategies/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// CreateStrategyEndpoint handles POST /api/strategies.
type CreateStrategyEndpoint struct{}

func (e *CreateStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/strategies", e.handler
}

func (e *CreateStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Create a processing strategy
//	@Tags			strategies
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateStrategyRequest	true	"Strategy to create"
//	@Success		201		{object}	processing.Strategy
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/strategies [post]
func (e *CreateStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req CreateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.ProcessingFrom(r.Context())
	s, err := mgr.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, processing.ErrInvalidStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (e *CreateStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "strategy-create <name>",
		Short: "Create a processing strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp processing.Strategy
			req := CreateStrategyRequest{Name: args[0], Description: description}
			if err := client.Post(cmd.Context(), "/api/strategies", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Strategy description")
	return cmd
}

// UpdateStrategyEndpoint handles PATCH /api/strategies/{id}.
type UpdateStrategyEndpoint struct{}

func (e *UpdateStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PATCH", "/api/strategies/{id}", e.handler
}

func (e *UpdateStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Update a processing strategy
//	@Description	Renames a strategy or updates its description; omitted fields are untouched
//	@Tags			strategies
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Strategy id"
//	@Param			request	body		UpdateStrategyRequest	true	"Fields to update"
//	@Success		200		{object}	processing.Strategy
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/strategies/{id} [patch]
func (e *UpdateStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req UpdateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.ProcessingFrom(r.Context())
	if req.Name != nil {
		if err := mgr.Rename(r.Context(), id, *req.Name); err != nil {
			writeStrategyError(w, err)
			return
		}
	}
	if req.Description != nil {
		if err := mgr.SetDescription(r.Context(), id, *req.Description); err != nil {
			writeStrategyError(w, err)
			return
		}
	}
	s, err := mgr.Get(r.Context(), id)
	if err != nil {
		writeStrategyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (e *UpdateStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "strategy-update <id>",
		Short: "Rename a strategy or update its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req UpdateStrategyRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			client := api.NewClient(getServerURL())
			var resp processing.Strategy
			if err := client.Patch(cmd.Context(), "/api/strategies/"+args[0], req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

// DuplicateStrategyEndpoint handles POST /api/strategies/{id}/duplicate.
type DuplicateStrategyEndpoint struct{}

func (e *DuplicateStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/strategies/{id}/duplicate", e.handler
}

func (e *DuplicateStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Duplicate a processing strategy
//	@Description	Copies the strategy's parser and extractor rows under a new custom strategy
//	@Tags			strategies
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Strategy id"
//	@Param			request	body		DuplicateStrategyRequest	true	"Name of the copy"
//	@Success		201		{object}	processing.Strategy
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/strategies/{id}/duplicate [post]
func (e *DuplicateStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req DuplicateStrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.ProcessingFrom(r.Context())
	s, err := mgr.Duplicate(r.Context(), id, req.Name)
	if err != nil {
		writeStrategyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (e *DuplicateStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy-duplicate <id> <name>",
		Short: "Duplicate a processing strategy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp processing.Strategy
			req := DuplicateStrategyRequest{Name: args[1]}
			if err := client.Post(cmd.Context(), "/api/strategies/"+args[0]+"/duplicate", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SetDefaultStrategyEndpoint handles POST /api/strategies/{id}/default.
type SetDefaultStrategyEndpoint struct{}

func (e *SetDefaultStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/strategies/{id}/default", e.handler
}

func (e *SetDefaultStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Set the default processing strategy
//	@Tags			strategies
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	StrategyListResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id}/default [post]
func (e *SetDefaultStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.ProcessingFrom(r.Context())
	if err := mgr.SetDefault(r.Context(), id); err != nil {
		writeStrategyError(w, err)
		return
	}
	list, err := mgr.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	degraded := syncProjectConfig(r, project.ConfigUpdate{ProcessingStrategyID: id})
	writeJSON(w, http.StatusOK, StrategyListResponse{Strategies: list, Degraded: degraded})
}

func (e *SetDefaultStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy-set-default <id>",
		Short: "Set the default processing strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StrategyListResponse
			if err := client.Post(cmd.Context(), "/api/strategies/"+args[0]+"/default", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteStrategyEndpoint handles DELETE /api/strategies/{id}.
type DeleteStrategyEndpoint struct{}

func (e *DeleteStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/strategies/{id}", e.handler
}

func (e *DeleteStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete a processing strategy
//	@Description	Built-in strategies are soft-deleted and can be restored; custom strategies are removed with all their keys
//	@Tags			strategies
//	@Param			id	path	string	true	"Strategy id"
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id} [delete]
func (e *DeleteStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	mgr := svcctx.ProcessingFrom(r.Context())
	if err := mgr.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeStrategyError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy-delete <id>",
		Short: "Delete a processing strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/strategies/"+args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

// RestoreStrategyEndpoint handles POST /api/strategies/{id}/restore.
type RestoreStrategyEndpoint struct{}

func (e *RestoreStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/strategies/{id}/restore", e.handler
}

func (e *RestoreStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Restore a soft-deleted built-in strategy
//	@Tags			strategies
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	processing.Strategy
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id}/restore [post]
func (e *RestoreStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.ProcessingFrom(r.Context())
	if err := mgr.Restore(r.Context(), id); err != nil {
		writeStrategyError(w, err)
		return
	}
	s, err := mgr.Get(r.Context(), id)
	if err != nil {
		writeStrategyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (e *RestoreStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy-restore <id>",
		Short: "Restore a soft-deleted built-in strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp processing.Strategy
			if err := client.Post(cmd.Context(), "/api/strategies/"+args[0]+"/restore", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ReprocessStatusEndpoint handles GET /api/strategies/{id}/reprocess.
type ReprocessStatusEndpoint struct{}

func (e *ReprocessStatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/strategies/{id}/reprocess", e.handler
}

func (e *ReprocessStatusEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get the reprocess-needed flag
//	@Tags			strategies
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	ReprocessStatusResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id}/reprocess [get]
func (e *ReprocessStatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.ProcessingFrom(r.Context())
	needed, err := mgr.NeedsReprocess(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ReprocessStatusResponse{StrategyID: id, Needed: needed})
}

func (e *ReprocessStatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy-reprocess-status <id>",
		Short: "Get the reprocess-needed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ReprocessStatusResponse
			if err := client.Get(cmd.Context(), "/api/strategies/"+args[0]+"/reprocess", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SetReprocessEndpoint handles PUT /api/strategies/{id}/reprocess.
type SetReprocessEndpoint struct{}

func (e *SetReprocessEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/strategies/{id}/reprocess", e.handler
}

func (e *SetReprocessEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Set the reprocess-needed flag
//	@Tags			strategies
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Strategy id"
//	@Param			request	body		SetReprocessRequest	true	"Flag value"
//	@Success		200		{object}	ReprocessStatusResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/strategies/{id}/reprocess [put]
func (e *SetReprocessEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req SetReprocessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.ProcessingFrom(r.Context())
	if err := mgr.SetNeedsReprocess(r.Context(), id, req.Needed); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ReprocessStatusResponse{StrategyID: id, Needed: req.Needed})
}

func (e *SetReprocessEndpoint) Command(getServerURL func() string) *cobra.Command {
	var needed bool
	cmd := &cobra.Command{
		Use:   "strategy-reprocess <id>",
		Short: "Set the reprocess-needed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ReprocessStatusResponse
			req := SetReprocessRequest{Needed: needed}
			if err := client.Put(cmd.Context(), "/api/strategies/"+args[0]+"/reprocess", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&needed, "needed", true, "Flag value")
	return cmd
}

// ReingestStrategyEndpoint handles POST /api/strategies/{id}/reingest. It
// forwards the run to the project API and clears the reprocess flag on
// acceptance.
type ReingestStrategyEndpoint struct{}

func (e *ReingestStrategyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/strategies/{id}/reingest", e.handler
}

func (e *ReingestStrategyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Trigger a re-ingest run
//	@Description	Asks the project API to re-ingest datasets under this strategy; defaults to the datasets recorded as using it
//	@Tags			strategies
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Strategy id"
//	@Param			request	body		ReingestStrategyRequest	false	"Datasets to re-ingest"
//	@Success		202		{object}	project.ReingestResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/strategies/{id}/reingest [post]
func (e *ReingestStrategyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req ReingestStrategyRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	mgr := svcctx.ProcessingFrom(r.Context())
	datasets := req.Datasets
	if len(datasets) == 0 {
		recorded, err := mgr.DatasetsUsing(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		datasets = recorded
	}

	projects := svcctx.ProjectsFrom(r.Context())
	if projects == nil {
		writeError(w, http.StatusServiceUnavailable, "project API not configured")
		return
	}
	resp, err := projects.TriggerReingest(r.Context(), project.ReingestRequest{
		StrategyID: id,
		Datasets:   datasets,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	if err := mgr.SetNeedsReprocess(r.Context(), id, false); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (e *ReingestStrategyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var datasets []string
	cmd := &cobra.Command{
		Use:   "strategy-reingest <id>",
		Short: "Trigger a re-ingest run for a strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp project.ReingestResponse
			req := ReingestStrategyRequest{Datasets: datasets}
			if err := client.Post(cmd.Context(), "/api/strategies/"+args[0]+"/reingest", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringSliceVar(&datasets, "dataset", nil, "Dataset to re-ingest (repeatable)")
	return cmd
}

// writeStrategyError maps processing errors onto HTTP status codes.
func writeStrategyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, processing.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, processing.ErrInvalidStrategy):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
