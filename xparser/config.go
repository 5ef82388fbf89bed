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


package xparser

import (
	"errors"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the request timeout applied to parse calls.
	DefaultTimeout = 300 * time.Second

	// DefaultMaxConcurrent is the default bound on in-flight requests.
	DefaultMaxConcurrent = 10
)

// Config holds configuration for the X-Parser client.
// A Config is fixed for the lifetime of the Client built from it.
type Config struct {
	// BaseURL is the base URL of the X-Parser service.
	// Example: "http://localhost:8000"
	BaseURL string

	// Timeout is the maximum time to wait for a full parse response.
	// Default: 300s. Parsing large documents is slow; probes use a
	// separate short timeout.
	Timeout time.Duration

	// MaxConcurrent bounds the number of in-flight HTTP requests issued
	// by one client instance. It is a process-local admission limit.
	// Default: 10.
	MaxConcurrent int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithTimeout sets the parse request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxConcurrent sets the bound on in-flight requests.
func WithMaxConcurrent(n int) ConfigOption {
	return func(c *Config) {
		c.MaxConcurrent = n
	}
}

// NewConfig creates a Config for the given base URL with default values
// and applies the provided options.
//
// Example:
//
//	cfg := xparser.NewConfig("http://localhost:8000",
//	    xparser.WithTimeout(60*time.Second),
//	    xparser.WithMaxConcurrent(4),
//	)
func NewConfig(baseURL string, opts ...ConfigOption) *Config {
	cfg := &Config{
		BaseURL:       baseURL,
		Timeout:       DefaultTimeout,
		MaxConcurrent: DefaultMaxConcurrent,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// Trailing slashes are stripped from BaseURL so endpoint paths can be
// appended directly.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("xparser config: BaseURL is required")
	}
	if c.Timeout <= 0 {
		return errors.New("xparser config: Timeout must be positive")
	}
	if c.MaxConcurrent < 1 {
		return errors.New("xparser config: MaxConcurrent must be at least 1")
	}
	return nil
}
