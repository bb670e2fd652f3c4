package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Aierlanta/luoxu-web-ai/internal/watcher"
)

// EventsHandler returns a handler for Server-Sent Events
// @Summary Stream config change events
// @Description Subscribe to configuration changes
// @Tags events
// @Produce text/event-stream
// @Success 200 {string} string "stream"
// @Router /api/events [get]
func EventsHandler(w *watcher.Service) http.HandlerFunc {
	return func(wResp http.ResponseWriter, r *http.Request) {
		flusher, ok := wResp.(http.Flusher)
		if !ok {
			writeError(wResp, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		// subscribe before flushing headers so no event is missed once the
		// client sees the response
		ch := w.Subscribe()
		defer w.Unsubscribe(ch)

		wResp.Header().Set("Content-Type", "text/event-stream")
		wResp.Header().Set("Cache-Control", "no-cache")
		wResp.Header().Set("Connection", "keep-alive")
		wResp.WriteHeader(http.StatusOK)
		flusher.Flush()

		log.Printf("[SSE] Client connected: %s", r.RemoteAddr)

		for {
			select {
			case <-r.Context().Done():
				log.Printf("[SSE] Client disconnected: %s", r.RemoteAddr)
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				fmt.Fprintf(wResp, "data: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}
