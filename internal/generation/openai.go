package generation

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/talekeeper/chronicle/internal/platform/errors"
)

// OpenAIGenerator talks to an OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator builds a generator for the given model. An empty
// baseURL uses the default OpenAI endpoint; set it to point at any
// compatible server.
func NewOpenAIGenerator(apiKey, model, baseURL string) *OpenAIGenerator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Generate sends the prompt and returns the first choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, messages []Message, settings Settings) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", apperrors.Wrap(apperrors.CodeGenerationFailed, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.CodeGenerationEmpty, "completion returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.New(apperrors.CodeGenerationEmpty, "completion returned empty content")
	}
	return content, nil
}
