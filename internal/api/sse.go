package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/openhwmon/nct7904-go/internal/models"
)

// sseEvents streams sensor snapshots over Server-Sent Events. The
// client receives the latest snapshot immediately, then one frame per
// publish from the poll loop. Every frame is a full snapshot, so a
// frame dropped for a slow reader needs no replay.
func (h *Handlers) sseEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	id := uuid.New().String()
	ch := h.events.Subscribe(id)
	defer h.events.Unsubscribe(id)

	if err := writeSnapshot(w, flusher, h.ctrl.State()); err != nil {
		return
	}

	for {
		select {
		case st, ok := <-ch:
			if !ok {
				return
			}
			// A failed write means the client went away; unwind and
			// let the deferred unsubscribe drop the channel.
			if err := writeSnapshot(w, flusher, st); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// writeSnapshot emits one snapshot as an SSE data frame.
func writeSnapshot(w http.ResponseWriter, flusher http.Flusher, st models.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
