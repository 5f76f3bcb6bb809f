package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// ChatAPI defines the interface for chat completion generation
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatConfig controls the chat completion client.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// ChatClient generates answers from an OpenAI-compatible chat endpoint.
// The answering model is an opaque collaborator; callers own fallback
// behavior when it is unreachable.
type ChatClient struct {
	cl  ChatAPI
	cfg ChatConfig
}

// NewChatClient creates a chat client for the configured endpoint.
func NewChatClient(cfg ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &ChatClient{
		cl:  openai.NewClientWithConfig(clientCfg),
		cfg: cfg,
	}
}

// Complete sends a system and user message pair and returns the model's reply.
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.cl.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
