package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/svcctx"
)

// EventsEndpoint handles GET /api/events, a server-sent event stream of
// strategy change notifications.
type EventsEndpoint struct{}

func (e *EventsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/events", e.handler
}

func (e *EventsEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Stream change events
//	@Description	Server-sent events; each message names the event and the strategy it concerns. Slow consumers may miss events and should re-read state on reconnect.
//	@Tags			events
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"event stream"
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/events [get]
func (e *EventsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	bus := svcctx.BusFrom(r.Context())
	events, cancel := bus.Subscribe(16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()
		}
	}
}

func (e *EventsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Stream change events",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, getServerURL()+"/api/events", nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server returned status %d", resp.StatusCode)
			}
			buf := make([]byte, 4096)
			for {
				n, err := resp.Body.Read(buf)
				if n > 0 {
					fmt.Print(string(buf[:n]))
				}
				if err != nil {
					return nil
				}
			}
		},
	}
}
