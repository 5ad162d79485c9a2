package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thep200/daily-git-brief/api"
	"github.com/thep200/daily-git-brief/internal/model"
)

type collectAccepted struct {
	Message string `json:"message"`
}

func (h *Handler) startCollection(w http.ResponseWriter, r *http.Request) {
	err := h.control.StartCollection(r.Context())
	switch {
	case errors.Is(err, api.ErrCollectionInProgress):
		h.fail(w, r, http.StatusConflict, "Collection already in progress")
	case err != nil:
		h.Logger.Error(r.Context(), "Failed to start collection: %v", err)
		h.fail(w, r, http.StatusInternalServerError, "Failed to start collection")
	default:
		h.ok(w, r, http.StatusAccepted, collectAccepted{Message: "Collection started"})
	}
}

func (h *Handler) getCollectionStatus(w http.ResponseWriter, r *http.Request) {
	h.ok(w, r, http.StatusOK, h.control.Status())
}

// streamCollectionEvents phát ProgressEvent dạng server-sent events.
// Frame đầu tiên là trạng thái hiện tại để client mới vào không phải chờ event kế tiếp.
func (h *Handler) streamCollectionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.fail(w, r, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	// Stream sống lâu hơn WriteTimeout của server
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sub := h.control.Broadcaster().Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, h.control.Status().Event()); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub.C:
			if !open {
				return
			}
			if err := writeEvent(w, event); err != nil {
				h.Logger.Debug(r.Context(), "Progress stream closed: %v", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event model.ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
	return err
}
