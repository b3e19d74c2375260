// Package storage defines the persistence interface for chat sessions and messages.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/shepherd/internal/models"
)

// ErrSessionNotFound is returned by GetSession for unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Store defines session and message persistence operations. Messages within a
// session are returned in insertion order, oldest first.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *models.ChatSession) error
	GetSession(ctx context.Context, id string) (*models.ChatSession, error)

	// Message operations
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string, limit int) ([]*models.ChatMessage, error)

	// Stats
	CountSessions(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)

	Close() error
}
