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


package docgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sbeom12/graph-db-test/config"
	"github.com/Sbeom12/graph-db-test/graph"
	"github.com/Sbeom12/graph-db-test/graph/kg"
	"github.com/Sbeom12/graph-db-test/graph/neo4j"
	"github.com/Sbeom12/graph-db-test/storage"
	"github.com/Sbeom12/graph-db-test/storage/badger"
	"github.com/Sbeom12/graph-db-test/xparser"
)

// Service ties the parsing client, the result cache, and the graph
// ingestion pipeline together behind one handle. It is the library-level
// entry point; callers that only need one subsystem can use the
// subpackages directly.
type Service struct {
	client   *xparser.Client
	cache    storage.ResultRepository
	pipeline *kg.Pipeline
	store    graph.Store
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	cachePath string
	workers   int
	chunkSize int
	onError   kg.OnError
}

// WithCachePath enables the BadgerDB parse-result cache at the given
// directory.
func WithCachePath(path string) ServiceOption {
	return func(o *serviceOptions) {
		o.cachePath = path
	}
}

// WithWorkers sets the number of concurrent extraction workers.
func WithWorkers(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.workers = n
	}
}

// WithChunkSize sets the ingestion chunk length in characters.
func WithChunkSize(n int) ServiceOption {
	return func(o *serviceOptions) {
		o.chunkSize = n
	}
}

// WithFailFast aborts ingestion on the first failing chunk instead of
// skipping it.
func WithFailFast() ServiceOption {
	return func(o *serviceOptions) {
		o.onError = kg.OnErrorFail
	}
}

// NewService wires a full document-to-graph service from configuration.
func NewService(cfg *config.Config, schema *graph.Schema, opts ...ServiceOption) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &serviceOptions{
		workers:   2,
		chunkSize: kg.DefaultChunkSize,
		onError:   kg.OnErrorIgnore,
	}
	for _, opt := range opts {
		opt(options)
	}

	client, err := xparser.New(xparser.NewConfig(cfg.Parser.URL,
		xparser.WithTimeout(cfg.Parser.Timeout),
		xparser.WithMaxConcurrent(cfg.Parser.MaxConcurrent),
	))
	if err != nil {
		return nil, err
	}

	var cache storage.ResultRepository
	if options.cachePath != "" {
		cache, err = badger.NewResultRepository(options.cachePath)
		if err != nil {
			client.Close()
			return nil, err
		}
	}

	kgConfig := kg.NewConfig(
		kg.WithHost(cfg.LLM.Host),
		kg.WithLLMModel(cfg.LLM.Model),
		kg.WithEmbeddingModel(cfg.LLM.EmbeddingModel),
		kg.WithToken(cfg.LLM.Token),
	)

	extractor, err := kg.NewExtractor(kgConfig)
	if err != nil {
		closeAll(client, cache, nil, nil)
		return nil, err
	}
	embedder, err := kg.NewEmbedder(kgConfig)
	if err != nil {
		closeAll(client, cache, nil, nil)
		return nil, err
	}

	store, err := neo4j.NewStore(&neo4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		closeAll(client, cache, nil, nil)
		return nil, err
	}

	pipeline, err := kg.NewPipeline(extractor, embedder, store, schema,
		kg.WithPoolSize(options.workers),
		kg.WithChunkSize(options.chunkSize),
		kg.WithOnError(options.onError),
	)
	if err != nil {
		closeAll(client, cache, store, nil)
		return nil, err
	}

	return &Service{
		client:   client,
		cache:    cache,
		pipeline: pipeline,
		store:    store,
		logger:   slog.Default(),
	}, nil
}

// newService assembles a Service from pre-built components. Used by tests.
func newService(client *xparser.Client, cache storage.ResultRepository, pipeline *kg.Pipeline, store graph.Store) *Service {
	return &Service{
		client:   client,
		cache:    cache,
		pipeline: pipeline,
		store:    store,
		logger:   slog.Default(),
	}
}

// Close releases all subsystems. The context bounds the graph store
// shutdown.
func (s *Service) Close(ctx context.Context) error {
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	s.client.Close()

	var firstErr error
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Error("error closing result cache", "err", err)
			firstErr = err
		}
	}
	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error("error closing graph store", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ParseDocument parses a document through the layout endpoint, returning
// a cached result when one exists.
func (s *Service) ParseDocument(ctx context.Context, filename, bucket string, options map[string]any) (xparser.ParseResult, error) {
	return s.cachedParse(ctx, "parse", filename, bucket, options, s.client.Parse)
}

// ChunkDocument parses a document through the chunk endpoint, returning
// a cached result when one exists.
func (s *Service) ChunkDocument(ctx context.Context, filename, bucket string, options map[string]any) (xparser.ParseResult, error) {
	return s.cachedParse(ctx, "chunk", filename, bucket, options, s.client.ParseChunk)
}

type parseFn func(ctx context.Context, savedFilename, bucketName string, options map[string]any) (xparser.ParseResult, error)

func (s *Service) cachedParse(ctx context.Context, endpoint, filename, bucket string, options map[string]any, call parseFn) (xparser.ParseResult, error) {
	if bucket == "" {
		bucket = xparser.DefaultBucket
	}

	var cacheID storage.ID
	if s.cache != nil {
		cacheID = storage.IDFromRequest(endpoint, bucket, filename, options)
		if record, err := s.cache.GetResult(ctx, cacheID); err == nil {
			var result xparser.ParseResult
			if err := json.Unmarshal(record.Payload, &result); err == nil {
				s.logger.Info("cache hit", "endpoint", endpoint, "saved_filename", filename)
				return result, nil
			}
			s.logger.Warn("discarding unreadable cache entry", "saved_filename", filename)
		}
	}

	result, err := call(ctx, filename, bucket, options)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(result); err == nil {
			record := storage.NewParseRecord(endpoint, bucket, filename, options, payload)
			if _, err := s.cache.PutResult(ctx, record); err != nil {
				s.logger.Warn("failed to cache result", "saved_filename", filename, "err", err)
			}
		}
	}
	return result, nil
}

// IngestText runs the knowledge graph pipeline over raw text.
func (s *Service) IngestText(ctx context.Context, text string) error {
	return s.pipeline.Run(ctx, text)
}

// IngestDocument parses a document and feeds its text content through
// the knowledge graph pipeline.
func (s *Service) IngestDocument(ctx context.Context, filename, bucket string) error {
	result, err := s.ChunkDocument(ctx, filename, bucket, nil)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}

	text := extractText(result)
	if text == "" {
		s.logger.Warn("document produced no text", "saved_filename", filename)
		return nil
	}
	return s.IngestText(ctx, text)
}

// Healthy reports whether both the parsing service and the graph store
// are reachable.
func (s *Service) Healthy(ctx context.Context) bool {
	if !s.client.CheckHealth(ctx) {
		return false
	}
	if s.store != nil {
		type connectivity interface {
			VerifyConnectivity(ctx context.Context) error
		}
		if v, ok := s.store.(connectivity); ok {
			return v.VerifyConnectivity(ctx) == nil
		}
	}
	return true
}

// extractText pulls the textual content out of a parse result. Elements
// carry their text under content.text, content.markdown, or a plain
// text field depending on the requested response format.
func extractText(result xparser.ParseResult) string {
	elements, ok := result["elements"].([]any)
	if !ok {
		return ""
	}

	var sb strings.Builder
	for _, raw := range elements {
		element, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text := elementText(element)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	return sb.String()
}

func elementText(element map[string]any) string {
	if content, ok := element["content"].(map[string]any); ok {
		for _, key := range []string{"text", "markdown", "html"} {
			if text, ok := content[key].(string); ok && strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text)
			}
		}
	}
	if text, ok := element["text"].(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

// closeAll releases partially-constructed subsystems when NewService
// fails midway.
func closeAll(client *xparser.Client, cache storage.ResultRepository, store graph.Store, pipeline *kg.Pipeline) {
	if pipeline != nil {
		pipeline.Release()
	}
	if client != nil {
		client.Close()
	}
	if cache != nil {
		cache.Close()
	}
	if store != nil {
		store.Close(context.Background())
	}
}
