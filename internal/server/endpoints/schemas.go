package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/schema"
)

// SchemaCatalogResponse lists the registered parser and extractor names.
type SchemaCatalogResponse struct {
	Parsers    []string `json:"parsers"`
	Extractors []string `json:"extractors"`
}

// SchemaResponse carries one registered schema document.
type SchemaResponse struct {
	Name   string                `json:"name"`
	Kind   schema.Kind           `json:"kind"`
	Schema schema.StrategySchema `json:"schema"`
}

// SchemaDefaultsResponse carries the config derived from schema defaults.
type SchemaDefaultsResponse struct {
	Name     string         `json:"name"`
	Kind     schema.Kind    `json:"kind"`
	Defaults map[string]any `json:"defaults"`
}

// SchemaCatalogEndpoint handles GET /api/schemas.
type SchemaCatalogEndpoint struct{}

func (e *SchemaCatalogEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schemas", e.handler
}

func (e *SchemaCatalogEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List registered schemas
//	@Description	Returns the registered parser and extractor schema names
//	@Tags			schemas
//	@Produce		json
//	@Success		200	{object}	SchemaCatalogResponse
//	@Router			/api/schemas [get]
func (e *SchemaCatalogEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SchemaCatalogResponse{
		Parsers:    schema.Names(schema.KindParser),
		Extractors: schema.Names(schema.KindExtractor),
	})
}

func (e *SchemaCatalogEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List registered parser and extractor schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SchemaCatalogResponse
			if err := client.Get(cmd.Context(), "/api/schemas", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetSchemaEndpoint handles GET /api/schemas/{kind}/{name}.
type GetSchemaEndpoint struct{}

func (e *GetSchemaEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schemas/{kind}/{name}", e.handler
}

func (e *GetSchemaEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Get a registered schema
//	@Tags			schemas
//	@Produce		json
//	@Param			kind	path		string	true	"Schema kind (parser or extractor)"
//	@Param			name	path		string	true	"Schema name, e.g. PDFParser"
//	@Success		200		{object}	SchemaResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/schemas/{kind}/{name} [get]
func (e *GetSchemaEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be parser or extractor")
		return
	}
	name := r.PathValue("name")
	s, found, err := schema.Get(kind, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no registered schema named "+name)
		return
	}
	writeJSON(w, http.StatusOK, SchemaResponse{Name: s.Name, Kind: s.Kind, Schema: s.StrategySchema})
}

func (e *GetSchemaEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema-get <kind> <name>",
		Short: "Get a registered schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SchemaResponse
			if err := client.Get(cmd.Context(), "/api/schemas/"+args[0]+"/"+args[1], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// SchemaDefaultsEndpoint handles GET /api/schemas/{kind}/{name}/defaults.
type SchemaDefaultsEndpoint struct{}

func (e *SchemaDefaultsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/schemas/{kind}/{name}/defaults", e.handler
}

func (e *SchemaDefaultsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Derive a schema's default config
//	@Description	Builds a config object from the schema's declared field defaults
//	@Tags			schemas
//	@Produce		json
//	@Param			kind	path		string	true	"Schema kind (parser or extractor)"
//	@Param			name	path		string	true	"Schema name"
//	@Success		200		{object}	SchemaDefaultsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/schemas/{kind}/{name}/defaults [get]
func (e *SchemaDefaultsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be parser or extractor")
		return
	}
	name := r.PathValue("name")
	defaults, err := schema.DeriveDefaultsFor(kind, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SchemaDefaultsResponse{Name: name, Kind: kind, Defaults: defaults})
}

func (e *SchemaDefaultsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema-defaults <kind> <name>",
		Short: "Derive a schema's default config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SchemaDefaultsResponse
			if err := client.Get(cmd.Context(), "/api/schemas/"+args[0]+"/"+args[1]+"/defaults", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

func parseKind(raw string) (schema.Kind, bool) {
	switch raw {
	case string(schema.KindParser):
		return schema.KindParser, true
	case string(schema.KindExtractor):
		return schema.KindExtractor, true
	}
	return "", false
}
