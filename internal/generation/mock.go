package generation

import (
	"context"
	"time"
)

// MockGenerator returns canned responses for tests. Delay, when set, is
// honored before responding and cut short by context cancellation.
type MockGenerator struct {
	Response string
	Err      error
	Delay    time.Duration
}

// Generate returns the configured response or error after the configured delay.
func (m *MockGenerator) Generate(ctx context.Context, systemPrompt, userText, sessionID string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
