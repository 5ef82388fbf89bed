package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 300*time.Second, cfg.Parser.Timeout)
	assert.Equal(t, 10, cfg.Parser.MaxConcurrent)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "text-embedding-3-large", cfg.LLM.EmbeddingModel)
	assert.Empty(t, cfg.Cache.Path)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("X_PARSER_URL", "http://parser:9000")
	t.Setenv("PARSE_TIMEOUT", "120")
	t.Setenv("MAX_CONCURRENT", "4")
	t.Setenv("NEO4J_URI", "neo4j://db:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("LLM_HOST", "http://localhost:11434")
	t.Setenv("CACHE_PATH", "/tmp/parse-cache")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://parser:9000", cfg.Parser.URL)
	assert.Equal(t, 120*time.Second, cfg.Parser.Timeout)
	assert.Equal(t, 4, cfg.Parser.MaxConcurrent)
	assert.Equal(t, "neo4j://db:7687", cfg.Neo4j.URI)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Host)
	assert.Equal(t, "/tmp/parse-cache", cfg.Cache.Path)
	assert.NoError(t, cfg.Validate())
}

func TestDurationFormats(t *testing.T) {
	t.Setenv("PARSE_TIMEOUT", "5m")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Parser.Timeout)

	t.Setenv("PARSE_TIMEOUT", "not-a-duration")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Second, cfg.Parser.Timeout)
}

func TestInvalidIntFallsBack(t *testing.T) {
	t.Setenv("MAX_CONCURRENT", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Parser.MaxConcurrent)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.Parser.URL = ""
	assert.Error(t, cfg.Validate())

	cfg.Parser.URL = "http://parser:9000"
	cfg.Parser.MaxConcurrent = 0
	assert.Error(t, cfg.Validate())

	cfg.Parser.MaxConcurrent = 1
	cfg.Parser.Timeout = 0
	assert.Error(t, cfg.Validate())
}
