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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	parsePath  = "/api/v1/parse"
	chunkPath  = "/api/v2/chunk"
	healthPath = "/health"

	// Health probes are best-effort and should fail fast.
	probeTimeout = 10 * time.Second
)

// ParseResult is the structured output returned by the X-Parser service.
// Its internal shape is the service's contract; this package treats it as
// opaque JSON data.
type ParseResult map[string]any

// parseRequest is the outbound request body. Field names match the service
// wire format exactly.
type parseRequest struct {
	SavedFilename string         `json:"saved_filename"`
	BucketName    string         `json:"bucket_name"`
	Options       map[string]any `json:"options"`
}

// Client is a concurrency-bounded X-Parser API client. All parse calls
// share one admission pool, so at most Config.MaxConcurrent requests are
// in flight at any instant regardless of how many callers there are.
//
// A Client holds no per-request state; it is safe for concurrent use and
// meant to be created once and reused.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	probe      *http.Client
	pool       *ants.Pool
	logger     *slog.Logger
}

// New creates a Client from the given configuration. No network I/O
// occurs at construction time. The caller must Close the client when done
// to release the admission pool.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := ants.NewPool(cfg.MaxConcurrent)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		probe:      &http.Client{Timeout: probeTimeout},
		pool:       pool,
		logger:     slog.Default().With("component", "xparser-client"),
	}, nil
}

// Close releases the admission pool. The client must not be used after
// calling Close.
func (c *Client) Close() {
	c.pool.Release()
}

// Parse parses a single document through the v1 layout endpoint.
// bucketName may be empty, in which case DefaultBucket is used. The
// supplied options are shallow-merged over DefaultParseOptions.
//
// Errors are classified per the package sentinels and propagate to the
// caller.
func (c *Client) Parse(ctx context.Context, savedFilename, bucketName string, options map[string]any) (ParseResult, error) {
	return c.submit(ctx, parsePath, savedFilename, bucketName, mergeOptions(DefaultParseOptions(), options))
}

// ParseChunk parses a single document through the v2 chunk endpoint.
// Same contract as Parse, with DefaultChunkOptions as the base option set.
func (c *Client) ParseChunk(ctx context.Context, savedFilename, bucketName string, options map[string]any) (ParseResult, error) {
	return c.submit(ctx, chunkPath, savedFilename, bucketName, mergeOptions(DefaultChunkOptions(), options))
}

// submit runs one request through the admission pool. Submit blocks while
// the pool is saturated, which is what bounds in-flight requests; the slot
// is released when the worker function returns, on every exit path.
func (c *Client) submit(ctx context.Context, path, savedFilename, bucketName string, options map[string]any) (ParseResult, error) {
	if bucketName == "" {
		bucketName = DefaultBucket
	}
	body := parseRequest{
		SavedFilename: savedFilename,
		BucketName:    bucketName,
		Options:       options,
	}

	type outcome struct {
		result ParseResult
		err    error
	}
	done := make(chan outcome, 1)

	if err := c.pool.Submit(func() {
		result, err := c.post(ctx, path, body)
		done <- outcome{result: result, err: err}
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClientClosed, err)
	}

	out := <-done
	return out.result, out.err
}

// post issues one HTTP POST round trip and classifies the outcome.
func (c *Client) post(ctx context.Context, path string, body parseRequest) (ParseResult, error) {
	c.logger.Info("parse started", "path", path, "saved_filename", body.SavedFilename)
	c.logger.Debug("request options", "options", body.Options)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, transportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("parse request failed", "saved_filename", body.SavedFilename, "err", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := classifyStatus(resp.StatusCode, string(raw))
		c.logger.Error("parse rejected", "saved_filename", body.SavedFilename, "status", resp.StatusCode, "err", apiErr)
		return nil, apiErr
	}

	var result ParseResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, transportError(err)
	}

	c.logger.Info("parse completed", "saved_filename", body.SavedFilename)
	return result, nil
}

// safeParse wraps Parse, converting any failure into a nil result so one
// failing document never aborts a batch.
func (c *Client) safeParse(ctx context.Context, savedFilename string, options map[string]any) ParseResult {
	result, err := c.Parse(ctx, savedFilename, "", options)
	if err != nil {
		c.logger.Error("safe parse failed", "saved_filename", savedFilename, "err", err)
		return nil
	}
	return result
}

// BatchParse parses many documents concurrently, bounded by the shared
// admission pool. The returned slice is positionally aligned with the
// input: index i holds the result for savedFilenames[i], or nil if that
// parse failed. All documents are attempted; there is no fail-fast.
func (c *Client) BatchParse(ctx context.Context, savedFilenames []string, options map[string]any) []ParseResult {
	c.logger.Info("batch parse started", "count", len(savedFilenames))

	results := make([]ParseResult, len(savedFilenames))
	var wg sync.WaitGroup
	for i, savedFilename := range savedFilenames {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.safeParse(ctx, savedFilename, options)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		if result != nil {
			succeeded++
		}
	}
	c.logger.Info("batch parse completed", "succeeded", succeeded, "count", len(savedFilenames))
	return results
}

// CheckHealth reports whether the X-Parser service is up and healthy.
// It returns true only for a 200 response whose body carries
// status "healthy". All failures, including transport errors, yield
// false; CheckHealth never returns an error.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return false
	}

	resp, err := c.probe.Do(req)
	if err != nil {
		c.logger.Warn("health check failed", "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var health map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		c.logger.Warn("health check failed", "err", err)
		return false
	}

	status, _ := health["status"].(string)
	return status == "healthy"
}

// ServerInfo fetches the service's health document. It returns the parsed
// body on success and nil on any failure; it never returns an error.
func (c *Client) ServerInfo(ctx context.Context) map[string]any {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return nil
	}

	resp, err := c.probe.Do(req)
	if err != nil {
		c.logger.Error("server info request failed", "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("server info request rejected", "status", resp.StatusCode)
		return nil
	}

	var info map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.logger.Error("server info decode failed", "err", err)
		return nil
	}
	return info
}
