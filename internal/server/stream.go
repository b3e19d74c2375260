package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/shepherd/internal/guidance"
	"github.com/hyperjump/shepherd/internal/models"
	"github.com/hyperjump/shepherd/internal/normalize"
	"go.uber.org/zap"
)

const heartbeatInterval = 30 * time.Second

// handleStream pushes a session's messages to the client over SSE. It emits
// a "connected" event on subscribe, a "message" event for each chat message
// appended to the session, and a "heartbeat" every 30 seconds so proxies keep
// the connection alive. The stream ends when the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID, err := normalize.SessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "session_id must be a valid UUID",
			Code:  string(guidance.RejectInvalidSessionID),
		})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	messages, cancel := s.notifier.Subscribe(sessionID)
	defer cancel()
	streamClients.Inc()
	defer streamClients.Dec()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "connected", map[string]string{"session_id": sessionID}); err != nil {
		return
	}
	flusher.Flush()
	s.logger.Debug("stream opened", zap.String("session_id", sessionID))

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("stream closed", zap.String("session_id", sessionID))
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := writeEvent(w, "message", msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			payload := map[string]string{"time": time.Now().UTC().Format(time.RFC3339)}
			if err := writeEvent(w, "heartbeat", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
