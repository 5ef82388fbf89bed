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


package kg

import (
	"errors"
	"strings"
)

// Config holds configuration for the LLM-backed extraction and embedding
// services.
type Config struct {
	// LLMHost is the base URL for the extraction LLM API.
	// Example: "https://api.openai.com/v1", or a local
	// OpenAI-compatible server.
	LLMHost string

	// EmbeddingHost is the base URL for the embedding service API.
	EmbeddingHost string

	// LLMModel is the chat model used for graph extraction.
	// Example: "gpt-4o"
	LLMModel string

	// EmbeddingModel is the model used for entity embeddings.
	// Example: "text-embedding-3-large"
	EmbeddingModel string

	// Token is the API token. Use "none" for local OpenAI-compatible
	// services that don't require authentication.
	Token string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets both LLM and embedding hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.LLMHost = host
		c.EmbeddingHost = host
	}
}

// WithLLMHost sets the extraction LLM host URL.
func WithLLMHost(host string) ConfigOption {
	return func(c *Config) {
		c.LLMHost = host
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithLLMModel sets the extraction model identifier.
func WithLLMModel(model string) ConfigOption {
	return func(c *Config) {
		c.LLMModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithToken sets the API token.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// DefaultConfig returns a Config targeting the OpenAI API with the models
// the ingestion pipeline was tuned against.
func DefaultConfig() *Config {
	defaultHost := "https://api.openai.com/v1"
	return &Config{
		LLMHost:        defaultHost,
		EmbeddingHost:  defaultHost,
		LLMModel:       "gpt-4o",
		EmbeddingModel: "text-embedding-3-large",
		Token:          "none",
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. Hosts get
// the /v1 suffix OpenAI-compatible APIs expect if it is missing.
func (c *Config) Normalize() {
	if c.LLMHost != "" && !strings.HasSuffix(c.LLMHost, "/v1") {
		c.LLMHost = strings.TrimSuffix(c.LLMHost, "/") + "/v1"
	}
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.LLMHost == "" {
		return errors.New("kg config: LLMHost is required")
	}
	if c.EmbeddingHost == "" {
		return errors.New("kg config: EmbeddingHost is required")
	}
	if c.LLMModel == "" {
		return errors.New("kg config: LLMModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("kg config: EmbeddingModel is required")
	}
	if c.Token == "" {
		return errors.New("kg config: Token is required")
	}
	return nil
}
