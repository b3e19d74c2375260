package generation

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIOptions configures the OpenAI-compatible generation client.
type OpenAIOptions struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client      llms.Model
	temperature float64
	logger      *zap.Logger
}

// NewOpenAIGenerator creates a generator for an OpenAI-compatible service.
// Returns ErrNoCredentials when no API key is configured, so callers can wire
// the Disabled generator instead.
func NewOpenAIGenerator(opts OpenAIOptions, logger *zap.Logger) (*OpenAIGenerator, error) {
	if opts.APIKey == "" {
		return nil, ErrNoCredentials
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []openai.Option{openai.WithToken(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}
	if opts.Model != "" {
		clientOpts = append(clientOpts, openai.WithModel(opts.Model))
	}
	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}

	return &OpenAIGenerator{
		client:      client,
		temperature: opts.Temperature,
		logger:      logger,
	}, nil
}

// Generate sends one chat completion request and returns the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userText, sessionID string) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userText)},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	g.logger.Debug("generation completed",
		zap.String("session_id", sessionID),
		zap.Int("response_chars", len(response.Choices[0].Content)))
	return response.Choices[0].Content, nil
}
