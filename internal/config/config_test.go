package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("SECONDBRAIN_PORT", "9090")
	os.Setenv("SECONDBRAIN_DEBUG", "true")
	os.Setenv("SECONDBRAIN_DATA_DIR", "/tmp/vectors")
	os.Setenv("SECONDBRAIN_OPENAI_API_KEY", "sk-test")
	os.Setenv("SECONDBRAIN_OPENAI_BASE_URL", "http://localhost:1234/v1")
	os.Setenv("SECONDBRAIN_EMBEDDING_MODEL", "text-embedding-3-small")
	os.Setenv("SECONDBRAIN_EMBEDDING_DIMENSIONS", "768")
	defer func() {
		os.Unsetenv("SECONDBRAIN_PORT")
		os.Unsetenv("SECONDBRAIN_DEBUG")
		os.Unsetenv("SECONDBRAIN_DATA_DIR")
		os.Unsetenv("SECONDBRAIN_OPENAI_API_KEY")
		os.Unsetenv("SECONDBRAIN_OPENAI_BASE_URL")
		os.Unsetenv("SECONDBRAIN_EMBEDDING_MODEL")
		os.Unsetenv("SECONDBRAIN_EMBEDDING_DIMENSIONS")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/vectors", cfg.DataDir)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "http://localhost:1234/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 768, cfg.EmbeddingDimensions)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "google/gemma-3n-e4b", cfg.ChatModel)
	assert.Zero(t, cfg.EmbeddingDimensions)
}

func TestHasModel(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "sk-test"}
	assert.True(t, cfg.HasModel())

	cfg = &Config{OpenAIBaseURL: "http://localhost:1234/v1"}
	assert.True(t, cfg.HasModel())

	cfg = &Config{}
	assert.False(t, cfg.HasModel())
}
