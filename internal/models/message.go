// Package models defines the chat domain types shared across packages.
package models

import "time"

// Message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Citation is a scored scripture reference attached to an assistant message.
// Score is the raw embedding distance to the query (lower is more similar),
// not a normalized probability.
type Citation struct {
	Reference string  `json:"reference"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// ChatMessage is one entry in a session's message log. Messages are
// append-only and never mutated after creation.
type ChatMessage struct {
	ID        string     `json:"id" db:"id"`
	SessionID string     `json:"session_id" db:"session_id"`
	Text      string     `json:"text" db:"text"`
	Sender    string     `json:"sender" db:"sender"`
	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
	Language  string     `json:"language" db:"language"`
	Citations []Citation `json:"citations,omitempty"`
}

// ChatSession is the per-conversation record. MessageCount is maintained by
// the store, not by callers.
type ChatSession struct {
	ID           string    `json:"id" db:"id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	Language     string    `json:"language" db:"language"`
	MessageCount int       `json:"message_count" db:"message_count"`
}
