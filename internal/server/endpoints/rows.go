package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/processing"
	"github.com/litflow/litflow/internal/schema"
	"github.com/litflow/litflow/internal/svcctx"
)

// ParserRowsResponse holds a strategy's parser table.
type ParserRowsResponse struct {
	StrategyID string                 `json:"strategyId"`
	Parsers    []processing.ParserRow `json:"parsers"`
}

// ExtractorRowsResponse holds a strategy's extractor table.
type ExtractorRowsResponse struct {
	StrategyID string                    `json:"strategyId"`
	Extractors []processing.ExtractorRow `json:"extractors"`
}

// ListParsersEndpoint handles GET /api/strategies/{id}/parsers.
type ListParsersEndpoint struct{}

func (e *ListParsersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/strategies/{id}/parsers", e.handler
}

func (e *ListParsersEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List a strategy's parser rows
//	@Description	Returns persisted rows, or the built-in seed rows when nothing is saved; legacy priorities are migrated on read
//	@Tags			rows
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	ParserRowsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id}/parsers [get]
func (e *ListParsersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.ProcessingFrom(r.Context())
	rows, err := mgr.Parsers(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ParserRowsResponse{StrategyID: id, Parsers: rows})
}

func (e *ListParsersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "parsers <strategy-id>",
		Short: "List a strategy's parser rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ParserRowsResponse
			if err := client.Get(cmd.Context(), "/api/strategies/"+args[0]+"/parsers", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SaveParsersEndpoint handles PUT /api/strategies/{id}/parsers.
type SaveParsersEndpoint struct{}

func (e *SaveParsersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/strategies/{id}/parsers", e.handler
}

func (e *SaveParsersEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Save a strategy's parser rows
//	@Description	Validates every row's priority and config against its schema before any write
//	@Tags			rows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Strategy id"
//	@Param			request	body		[]processing.ParserRow	true	"Full parser table"
//	@Success		200		{object}	ParserRowsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/strategies/{id}/parsers [put]
func (e *SaveParsersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var rows []processing.ParserRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.ProcessingFrom(r.Context())
	if err := mgr.SaveParsers(r.Context(), id, rows); err != nil {
		writeRowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ParserRowsResponse{StrategyID: id, Parsers: rows})
}

func (e *SaveParsersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "parsers-save <strategy-id> <rows-json>",
		Short: "Save a strategy's parser rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []processing.ParserRow
			if err := json.Unmarshal([]byte(args[1]), &rows); err != nil {
				return fmt.Errorf("invalid rows JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var resp ParserRowsResponse
			if err := client.Put(cmd.Context(), "/api/strategies/"+args[0]+"/parsers", rows, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ListExtractorsEndpoint handles GET /api/strategies/{id}/extractors.
type ListExtractorsEndpoint struct{}

func (e *ListExtractorsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/strategies/{id}/extractors", e.handler
}

func (e *ListExtractorsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List a strategy's extractor rows
//	@Tags			rows
//	@Produce		json
//	@Param			id	path		string	true	"Strategy id"
//	@Success		200	{object}	ExtractorRowsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/strategies/{id}/extractors [get]
func (e *ListExtractorsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mgr := svcctx.ProcessingFrom(r.Context())
	rows, err := mgr.Extractors(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ExtractorRowsResponse{StrategyID: id, Extractors: rows})
}

func (e *ListExtractorsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "extractors <strategy-id>",
		Short: "List a strategy's extractor rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ExtractorRowsResponse
			if err := client.Get(cmd.Context(), "/api/strategies/"+args[0]+"/extractors", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SaveExtractorsEndpoint handles PUT /api/strategies/{id}/extractors.
type SaveExtractorsEndpoint struct{}

func (e *SaveExtractorsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/strategies/{id}/extractors", e.handler
}

func (e *SaveExtractorsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Save a strategy's extractor rows
//	@Description	Validates every row's priority and config against its schema before any write
//	@Tags			rows
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Strategy id"
//	@Param			request	body		[]processing.ExtractorRow	true	"Full extractor table"
//	@Success		200		{object}	ExtractorRowsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/strategies/{id}/extractors [put]
func (e *SaveExtractorsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var rows []processing.ExtractorRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	mgr := svcctx.ProcessingFrom(r.Context())
	if err := mgr.SaveExtractors(r.Context(), id, rows); err != nil {
		writeRowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExtractorRowsResponse{StrategyID: id, Extractors: rows})
}

func (e *SaveExtractorsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "extractors-save <strategy-id> <rows-json>",
		Short: "Save a strategy's extractor rows",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []processing.ExtractorRow
			if err := json.Unmarshal([]byte(args[1]), &rows); err != nil {
				return fmt.Errorf("invalid rows JSON: %w", err)
			}
			client := api.NewClient(getServerURL())
			var resp ExtractorRowsResponse
			if err := client.Put(cmd.Context(), "/api/strategies/"+args[0]+"/extractors", rows, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// writeRowError maps row save errors onto HTTP status codes. Priority and
// schema violations are client errors.
func writeRowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, processing.ErrInvalidPriority),
		errors.Is(err, schema.ErrValidation),
		errors.Is(err, processing.ErrInvalidStrategy):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
