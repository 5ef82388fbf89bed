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
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/Sbeom12/graph-db-test/graph"
	"github.com/panjf2000/ants/v2"
)

// OnError selects how the pipeline treats per-chunk extraction failures.
type OnError int

const (
	// OnErrorIgnore logs a failing chunk and continues with the rest.
	// This is the default.
	OnErrorIgnore OnError = iota
	// OnErrorFail aborts the run on the first failing chunk.
	OnErrorFail
)

// Pipeline orchestrates schema-driven knowledge graph ingestion: text is
// chunked, each chunk is extracted concurrently, and the merged,
// schema-conforming fragment is embedded and upserted into the store.
type Pipeline struct {
	extractor graph.Extractor
	embedder  graph.Embedder
	store     graph.Store
	schema    *graph.Schema
	pool      *ants.Pool
	chunkSize int
	onError   OnError
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent chunk extraction.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunkSize sets the target chunk length in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.chunkSize = size
		return nil
	}
}

// WithOnError sets the per-chunk failure policy.
func WithOnError(policy OnError) Option {
	return func(p *Pipeline) error {
		p.onError = policy
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	extractor graph.Extractor,
	embedder graph.Embedder,
	store graph.Store,
	schema *graph.Schema,
	opts ...Option,
) (*Pipeline, error) {
	if extractor == nil {
		return nil, graph.ErrExtractorRequired
	}
	if embedder == nil {
		return nil, graph.ErrEmbedderRequired
	}
	if store == nil {
		return nil, graph.ErrStoreRequired
	}
	if schema == nil {
		return nil, graph.ErrSchemaRequired
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		schema:    schema,
		pool:      pool,
		chunkSize: DefaultChunkSize,
		onError:   OnErrorIgnore,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run ingests one piece of text: chunk, extract concurrently, conform to
// the schema, embed entity tuples, and upsert the merged fragment.
func (p *Pipeline) Run(ctx context.Context, text string) error {
	chunks := splitText(text, p.chunkSize)
	if len(chunks) == 0 {
		return nil
	}
	p.logger.Info("ingestion started", "chunks", len(chunks))

	extractions := make([]*graph.Extraction, len(chunks))
	extractErrs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			extractions[i], extractErrs[i] = p.extractor.ExtractGraph(ctx, chunk, p.schema)
		}); err != nil {
			wg.Done()
			extractErrs[i] = err
		}
	}
	wg.Wait()

	merged, err := p.merge(extractions, extractErrs)
	if err != nil {
		return err
	}
	if len(merged.Entities) == 0 {
		p.logger.Info("nothing extracted")
		return nil
	}

	if err := p.embedEntities(ctx, merged.Entities); err != nil {
		return err
	}

	if err := p.store.UpsertEntities(ctx, merged.Entities); err != nil {
		return fmt.Errorf("upsert entities: %w", err)
	}
	if len(merged.Relationships) > 0 {
		if err := p.store.UpsertRelationships(ctx, merged.Relationships); err != nil {
			return fmt.Errorf("upsert relationships: %w", err)
		}
	}

	p.logger.Info("ingestion completed",
		"entities", len(merged.Entities),
		"relationships", len(merged.Relationships))
	return nil
}

// merge deduplicates the per-chunk fragments into one schema-conforming
// extraction, applying the OnError policy to failed chunks.
func (p *Pipeline) merge(extractions []*graph.Extraction, errs []error) (*graph.Extraction, error) {
	merged := &graph.Extraction{}
	seenEntities := make(map[graph.ID]bool)
	seenRelationships := make(map[string]bool)

	for i, ex := range extractions {
		if errs[i] != nil {
			if p.onError == OnErrorFail {
				return nil, fmt.Errorf("extract chunk %d: %w", i, errs[i])
			}
			p.logger.Warn("chunk extraction failed, skipping", "chunk", i, "err", errs[i])
			continue
		}

		conformed := p.schema.Conform(ex)
		for _, entity := range conformed.Entities {
			id := entity.ID()
			if seenEntities[id] {
				continue
			}
			seenEntities[id] = true
			merged.Entities = append(merged.Entities, entity)
		}
		for _, rel := range conformed.Relationships {
			key := rel.SourceType + "|" + rel.SourceName + "|" + rel.Type + "|" + rel.TargetType + "|" + rel.TargetName
			if seenRelationships[key] {
				continue
			}
			seenRelationships[key] = true
			merged.Relationships = append(merged.Relationships, rel)
		}
	}
	return merged, nil
}

// embedEntities populates each entity's vector from its tuple embedding.
// With OnErrorIgnore, an embedding failure stores entities without
// vectors instead of aborting.
func (p *Pipeline) embedEntities(ctx context.Context, entities []graph.Entity) error {
	tuples := make([]string, len(entities))
	for i := range entities {
		tuples[i] = entities[i].Tuple()
	}

	vectors, err := p.embedder.EmbedTexts(ctx, tuples)
	if err != nil {
		if p.onError == OnErrorFail {
			return fmt.Errorf("embed entities: %w", err)
		}
		p.logger.Warn("entity embedding failed, storing without vectors", "err", err)
		return nil
	}

	for i := range entities {
		if i < len(vectors) {
			entities[i].Vector = vectors[i]
		}
	}
	return nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
