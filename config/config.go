// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full application configuration.
type Config struct {
	Parser ParserConfig
	Neo4j  Neo4jConfig
	LLM    LLMConfig
	Cache  CacheConfig
}

// ParserConfig configures the document parsing service client.
type ParserConfig struct {
	URL           string
	Timeout       time.Duration
	MaxConcurrent int
}

// Neo4jConfig configures the graph database connection.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string
}

// LLMConfig configures the extraction and embedding services.
type LLMConfig struct {
	Host           string
	Model          string
	EmbeddingModel string
	Token          string
}

// CacheConfig configures the local parse-result cache.
type CacheConfig struct {
	// Path is the BadgerDB directory. Empty disables caching.
	Path string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Parser: ParserConfig{
			URL:           getEnv("X_PARSER_URL", ""),
			Timeout:       getEnvAsDuration("PARSE_TIMEOUT", 300*time.Second),
			MaxConcurrent: getEnvAsInt("MAX_CONCURRENT", 10),
		},
		Neo4j: Neo4jConfig{
			URI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
			Username: getEnv("NEO4J_USERNAME", "neo4j"),
			Password: getEnv("NEO4J_PASSWORD", ""),
			Database: getEnv("NEO4J_DATABASE", ""),
		},
		LLM: LLMConfig{
			Host:           getEnv("LLM_HOST", "https://api.openai.com/v1"),
			Model:          getEnv("LLM_MODEL", "gpt-4o"),
			EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-large"),
			Token:          getEnv("LLM_TOKEN", "none"),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", ""),
		},
	}

	return cfg, nil
}

// Validate checks the fields needed to talk to the parsing service.
// Neo4j and LLM settings are validated by their own packages when used.
func (c *Config) Validate() error {
	if c.Parser.URL == "" {
		return fmt.Errorf("X_PARSER_URL is required")
	}
	if c.Parser.Timeout <= 0 {
		return fmt.Errorf("PARSE_TIMEOUT must be positive")
	}
	if c.Parser.MaxConcurrent < 1 {
		return fmt.Errorf("MAX_CONCURRENT must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads a duration. Plain numbers are treated as
// seconds, so PARSE_TIMEOUT=300 and PARSE_TIMEOUT=5m both work.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}
	return value
}
