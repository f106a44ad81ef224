package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/project"
	"github.com/litflow/litflow/internal/svcctx"
)

// DatasetListResponse holds the datasets known to the project service.
type DatasetListResponse struct {
	Datasets []project.Dataset `json:"datasets"`
}

// ListDatasetsEndpoint handles GET /api/datasets.
type ListDatasetsEndpoint struct{}

func (e *ListDatasetsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/datasets", e.handler
}

func (e *ListDatasetsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List project datasets
//	@Description	Proxies the project service's dataset list
//	@Tags			datasets
//	@Produce		json
//	@Success		200	{object}	DatasetListResponse
//	@Failure		502	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/datasets [get]
func (e *ListDatasetsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	projects := svcctx.ProjectsFrom(r.Context())
	if projects == nil {
		writeError(w, http.StatusServiceUnavailable, "project API not configured")
		return
	}
	datasets, err := projects.ListDatasets(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DatasetListResponse{Datasets: datasets})
}

func (e *ListDatasetsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List datasets known to the project service",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp DatasetListResponse
			if err := client.Get(cmd.Context(), "/api/datasets", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// syncProjectConfig pushes a strategy assignment to the project service after
// the local write has committed. Sync failure never rolls back the local
// state; the caller reports it through the response's degraded flag.
func syncProjectConfig(r *http.Request, upd project.ConfigUpdate) bool {
	projects := svcctx.ProjectsFrom(r.Context())
	if projects == nil {
		return false
	}
	if err := projects.UpdateProjectConfig(r.Context(), upd); err != nil {
		if log := svcctx.LoggerFrom(r.Context()); log != nil {
			log.Warn("project config sync failed", "error", err)
		}
		return true
	}
	return false
}
