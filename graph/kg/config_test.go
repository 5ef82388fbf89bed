package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLMHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
	assert.Equal(t, "none", cfg.Token)
	assert.NoError(t, cfg.Validate())
}

func TestConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://localhost:11434"),
		WithLLMModel("llama3"),
		WithEmbeddingModel("nomic-embed-text"),
		WithToken("secret"),
	)
	assert.Equal(t, "http://localhost:11434", cfg.LLMHost)
	assert.Equal(t, "http://localhost:11434", cfg.EmbeddingHost)
	assert.Equal(t, "llama3", cfg.LLMModel)
	assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	assert.Equal(t, "secret", cfg.Token)
}

func TestConfigSplitHosts(t *testing.T) {
	cfg := NewConfig(
		WithLLMHost("http://llm:8000/v1"),
		WithEmbeddingHost("http://embed:8001/v1"),
	)
	assert.Equal(t, "http://llm:8000/v1", cfg.LLMHost)
	assert.Equal(t, "http://embed:8001/v1", cfg.EmbeddingHost)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"bare host", "http://localhost:11434", "http://localhost:11434/v1"},
		{"trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"already suffixed", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.LLMHost)
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfigValidateMissing(t *testing.T) {
	cfg := NewConfig()
	cfg.LLMModel = ""
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.Token = ""
	assert.Error(t, cfg.Validate())
}
