package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// DataDir holds the persisted vector index.
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// OpenAIBaseURL may point at any OpenAI-compatible endpoint, e.g.
	// a local LM Studio instance.
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	EmbeddingModel string `envconfig:"EMBEDDING_MODEL"`
	// EmbeddingDimensions pins the expected vector size. Zero means
	// the model decides (required for non-OpenAI embedding models).
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"0"`
	ChatModel           string `envconfig:"CHAT_MODEL" default:"google/gemma-3n-e4b"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SECONDBRAIN", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasModel() bool {
	return c.OpenAIAPIKey != "" || c.OpenAIBaseURL != ""
}
