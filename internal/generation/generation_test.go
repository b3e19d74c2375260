package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewOpenAIGenerator_RequiresCredentials(t *testing.T) {
	_, err := NewOpenAIGenerator(OpenAIOptions{Model: "gpt-4o-mini"}, zap.NewNop())
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("err = %v, want ErrNoCredentials", err)
	}
}

func TestNewOpenAIGenerator_WithCredentials(t *testing.T) {
	g, err := NewOpenAIGenerator(OpenAIOptions{
		APIKey:      "test-key",
		BaseURL:     "http://localhost:9999/v1",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOpenAIGenerator: %v", err)
	}
	if g == nil {
		t.Fatal("expected a generator")
	}
}

func TestDisabled_AlwaysFails(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "prompt", "text", "session")
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("err = %v, want ErrNoCredentials", err)
	}
}

func TestMockGenerator_HonorsContext(t *testing.T) {
	m := &MockGenerator{Response: "slow answer", Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.Generate(ctx, "prompt", "text", "session")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
}

func TestRenderSystemPrompt(t *testing.T) {
	got := RenderSystemPrompt(DefaultSystemPrompt, "hindi")
	if !strings.Contains(got, "Respond in hindi") {
		t.Error("language placeholder not substituted")
	}
	if strings.Contains(got, "{language}") {
		t.Error("placeholder should be fully replaced")
	}

	plain := "no placeholder here"
	if RenderSystemPrompt(plain, "english") != plain {
		t.Error("template without placeholder should pass through")
	}
}
