package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/api"
	"github.com/litflow/litflow/internal/store"
	"github.com/litflow/litflow/internal/svcctx"
)

// StorageKeysResponse lists stored keys under a prefix.
type StorageKeysResponse struct {
	Prefix string   `json:"prefix"`
	Keys   []string `json:"keys"`
}

// StorageEntryResponse carries one raw stored entry.
type StorageEntryResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ListKeysEndpoint handles GET /api/storage.
type ListKeysEndpoint struct{}

func (e *ListKeysEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/storage", e.handler
}

func (e *ListKeysEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		List stored keys
//	@Description	Returns keys under a prefix, defaulting to the lf_ namespace
//	@Tags			storage
//	@Produce		json
//	@Param			prefix	query		string	false	"Key prefix"	default(lf_)
//	@Success		200		{object}	StorageKeysResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/storage [get]
func (e *ListKeysEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		prefix = "lf_"
	}
	s := svcctx.StoreFrom(r.Context())
	keys, err := s.Keys(r.Context(), prefix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StorageKeysResponse{Prefix: prefix, Keys: keys})
}

func (e *ListKeysEndpoint) Command(getServerURL func() string) *cobra.Command {
	var prefix string
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "List stored keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StorageKeysResponse
			if err := client.Get(cmd.Context(), "/api/storage?prefix="+prefix, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "lf_", "Key prefix")
	return cmd
}

// GetEntryEndpoint handles GET /api/storage/{key}.
type GetEntryEndpoint struct{}

func (e *GetEntryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/storage/{key}", e.handler
}

func (e *GetEntryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Get a raw stored entry
//	@Tags			storage
//	@Produce		json
//	@Param			key	path		string	true	"Storage key"
//	@Success		200	{object}	StorageEntryResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/storage/{key} [get]
func (e *GetEntryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := store.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s := svcctx.StoreFrom(r.Context())
	val, ok, err := s.Get(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no entry for key "+key)
		return
	}
	writeJSON(w, http.StatusOK, StorageEntryResponse{Key: key, Value: val})
}

func (e *GetEntryEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "storage-get <key>",
		Short: "Get a raw stored entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StorageEntryResponse
			if err := client.Get(cmd.Context(), "/api/storage/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// DeleteEntryEndpoint handles DELETE /api/storage/{key}.
type DeleteEntryEndpoint struct{}

func (e *DeleteEntryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/storage/{key}", e.handler
}

func (e *DeleteEntryEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Delete a stored entry
//	@Description	Removes one key; deleting an absent key succeeds
//	@Tags			storage
//	@Param			key	path	string	true	"Storage key"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/storage/{key} [delete]
func (e *DeleteEntryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := store.ValidateKey(key); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s := svcctx.StoreFrom(r.Context())
	if err := s.Delete(r.Context(), key); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (e *DeleteEntryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "storage-delete <key>",
		Short: "Delete a stored entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("pass --yes to confirm deletion")
			}
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/storage/"+args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
