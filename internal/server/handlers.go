package server

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hyperjump/shepherd/internal/guidance"
	"github.com/hyperjump/shepherd/internal/language"
	"github.com/hyperjump/shepherd/internal/models"
	"github.com/hyperjump/shepherd/internal/normalize"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := &models.ChatSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Language:  language.Default,
	}
	if err := s.store.CreateSession(r.Context(), session); err != nil {
		s.logger.Error("create session failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("session created", zap.String("session_id", session.ID))
	s.respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("chat request",
		zap.String("session_id", req.SessionID),
		zap.Int("message_chars", len(req.Message)))

	outcome, err := s.orchestrator.Handle(r.Context(), guidance.Request{
		SessionID: req.SessionID,
		Text:      req.Message,
		ClientID:  clientAddr(r),
	})
	if err != nil {
		chatRequests.WithLabelValues("error").Inc()
		s.logger.Error("chat request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch outcome.Status {
	case guidance.StatusRejected:
		chatRequests.WithLabelValues("rejected").Inc()
		s.respondReject(w, outcome.RejectReason)
	case guidance.StatusSuccess, guidance.StatusDegraded:
		chatRequests.WithLabelValues(string(outcome.Status)).Inc()
		citationsReturned.Add(float64(len(outcome.Citations)))
		citations := outcome.Citations
		if citations == nil {
			citations = []models.Citation{}
		}
		s.respondJSON(w, http.StatusOK, models.ChatResponse{
			Text:      outcome.Text,
			Citations: citations,
			SessionID: outcome.SessionID,
			Language:  outcome.Language,
			Status:    string(outcome.Status),
		})
	default:
		chatRequests.WithLabelValues("error").Inc()
		s.logger.Error("unexpected outcome status", zap.String("status", string(outcome.Status)))
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) respondReject(w http.ResponseWriter, reason guidance.RejectReason) {
	switch reason {
	case guidance.RejectEmptyInput:
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "message text is empty or too short",
			Code:  string(reason),
		})
	case guidance.RejectInvalidSessionID:
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "session_id must be a valid UUID",
			Code:  string(reason),
		})
	case guidance.RejectRateLimited:
		rateLimited.Inc()
		w.Header().Set("Retry-After", strconv.Itoa(s.retryAfterSeconds()))
		s.respondJSON(w, http.StatusTooManyRequests, models.ErrorResponse{
			Error: "rate limit exceeded, try again later",
			Code:  string(reason),
		})
	default:
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "request rejected",
			Code:  string(reason),
		})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID, err := normalize.SessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error: "session_id must be a valid UUID",
			Code:  string(guidance.RejectInvalidSessionID),
		})
		return
	}
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	messages, err := s.store.ListMessages(r.Context(), sessionID, limit)
	if err != nil {
		s.logger.Error("list messages failed", zap.Error(err), zap.String("session_id", sessionID))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]models.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, *m)
	}
	s.respondJSON(w, http.StatusOK, models.HistoryResponse{
		SessionID: sessionID,
		Messages:  out,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionCount, err := s.store.CountSessions(ctx)
	if err != nil {
		s.logger.Error("status: count sessions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	messageCount, err := s.store.CountMessages(ctx)
	if err != nil {
		s.logger.Error("status: count messages failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"sessions":           sessionCount,
		"messages":           messageCount,
		"stream_subscribers": s.notifier.Subscribers(),
	}
	if s.retriever != nil {
		resp["retrieval"] = map[string]interface{}{
			"enabled": s.retriever.Enabled(),
			"verses":  s.retriever.Stats(),
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// retryAfterSeconds mirrors the rate-limit window so a 429 tells the client
// when the oldest charged request will have aged out.
func (s *Server) retryAfterSeconds() int {
	if s.config.RateLimit.WindowSeconds > 0 {
		return s.config.RateLimit.WindowSeconds
	}
	return 60
}

// clientAddr is the rate-limit identity for a request: the connection's
// RemoteAddr host. X-Forwarded-For is not consulted since the service may be
// exposed without a trusted proxy and the header is client-controlled.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
