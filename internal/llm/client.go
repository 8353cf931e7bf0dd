package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/pkg/logger"
)

// Generator is the external text-generation boundary. The production
// implementation talks to Gemini; tests substitute their own.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type GenerateRequest struct {
	Model       string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Client speaks to the Gemini API through its OpenAI-compatible endpoint.
type Client struct {
	client *openai.Client
}

func NewClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	logger.Info("LLM client initialized", zap.String("base_url", cfg.BaseURL))

	return &Client{client: openai.NewClientWithConfig(cfg)}
}

// Generate performs exactly one completion attempt. There is no retry and no
// deadline beyond the caller's context; failures are the caller's to absorb.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: req.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: req.Prompt,
				},
			},
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	logger.Debug("Completion generated",
		zap.String("model", req.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}
