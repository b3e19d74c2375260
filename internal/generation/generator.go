// Package generation wraps the external text-generation service behind a
// small interface so the guidance pipeline can degrade gracefully when the
// service is slow, broken, or unconfigured.
package generation

import (
	"context"
	"errors"
)

var (
	// ErrNoCredentials indicates the generation service has no API key configured.
	ErrNoCredentials = errors.New("generation credentials missing")
	// ErrEmptyCompletion indicates the service answered without any choices.
	ErrEmptyCompletion = errors.New("generation returned no choices")
)

// Generator produces guidance text for a user message. Implementations make
// exactly one attempt; retries and fallbacks are the caller's concern.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userText, sessionID string) (string, error)
}

// Disabled is the Generator wired in when no credentials are configured.
// Every call fails with ErrNoCredentials so the pipeline serves its
// unavailability fallback instead of crashing at startup.
type Disabled struct{}

// Generate always fails with ErrNoCredentials.
func (Disabled) Generate(ctx context.Context, systemPrompt, userText, sessionID string) (string, error) {
	return "", ErrNoCredentials
}
