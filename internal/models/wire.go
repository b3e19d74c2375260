package models

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the success/degraded reply to POST /api/chat.
type ChatResponse struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
	SessionID string     `json:"session_id"`
	Language  string     `json:"language"`
	Status    string     `json:"status"`
}

// HistoryResponse is the reply to GET /api/chat/{sessionID}.
type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

// ErrorResponse is the structured rejection body. Code is machine-readable
// (empty_input, invalid_session_id, rate_limited) so clients can branch on it.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
