package httputil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/budget/internal/broadcast"
)

// Stream writes src as server-sent events until the client goes away. The
// current value is sent first; a slow client only ever gets the latest one.
func Stream[T, U any](w http.ResponseWriter, r *http.Request, src broadcast.Source[T], encode func(T) U) {
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates, unsubscribe := broadcast.Chan(src)
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case v := <-updates:
			data, err := json.Marshal(encode(v))
			if err != nil {
				slog.Error("failed to encode event", "error", err)
				return
			}

			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}

			if err := rc.Flush(); err != nil {
				slog.Error("failed to flush event", "error", err)
				return
			}
		}
	}
}
