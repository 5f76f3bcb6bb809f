package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the model used for generating embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from text-embedding-3-small
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
	// ErrNoAPIKey is returned when no API key is configured
	ErrNoAPIKey = errors.New("OPENAI_API_KEY not set")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// Client wraps the embedding API with dimension validation.
type Client struct {
	api        EmbeddingAPI
	dimensions int
}

type OpenAIAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIAdapter creates an adapter against the OpenAI API or any
// compatible endpoint (LM Studio, Ollama) when baseURL is non-empty.
func NewOpenAIAdapter(apiKey, baseURL string, model openai.EmbeddingModel) *OpenAIAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// CreateEmbeddings calls the embeddings API for one text
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

type Config struct {
	APIKey              string
	BaseURL             string
	EmbeddingModel      openai.EmbeddingModel
	EmbeddingDimensions int
}

// NewClient creates a new client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new client with explicit configuration.
// Dimensions are validated when set explicitly, or pinned to the known
// size of the default model; a custom model without declared dimensions
// accepts whatever size the endpoint returns.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		if cfg.EmbeddingModel == "" || cfg.EmbeddingModel == DefaultEmbeddingModel {
			dimensions = DefaultEmbeddingDimensions
		} else {
			dimensions = 0
		}
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, cfg.BaseURL, cfg.EmbeddingModel),
		dimensions: dimensions,
	}
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(embedding) == 0 {
		return nil, ErrWrongDimensions
	}
	if c.dimensions > 0 && len(embedding) != c.dimensions {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}

// EmbedTexts generates one embedding per input text, sequentially,
// preserving input order. Any failure aborts the whole batch.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, err := c.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}
