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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sbeom12/graph-db-test/config"
	"github.com/Sbeom12/graph-db-test/graph"
	"github.com/Sbeom12/graph-db-test/graph/kg"
	"github.com/Sbeom12/graph-db-test/graph/neo4j"
	"github.com/Sbeom12/graph-db-test/storage"
	"github.com/Sbeom12/graph-db-test/storage/badger"
	"github.com/Sbeom12/graph-db-test/xparser"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docgraph",
		Usage: "Parse documents and ingest them as knowledge graphs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "parse",
				Usage:  "Parse a document into layout elements",
				Action: parseCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document filename in remote storage",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "bucket",
						Aliases: []string{"b"},
						Usage:   "Storage bucket holding the document",
						Value:   xparser.DefaultBucket,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for the result JSON (default: <file>.json)",
					},
					&cli.StringFlag{
						Name:  "options",
						Usage: "Path to a JSON file with parse option overrides",
					},
					&cli.BoolFlag{
						Name:  "minimal",
						Usage: "Use the minimal option set (fast, fewer features)",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to a BadgerDB result cache directory",
					},
				},
			},
			{
				Name:   "chunk",
				Usage:  "Parse a document into retrieval-ready chunks",
				Action: chunkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document filename in remote storage",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "bucket",
						Aliases: []string{"b"},
						Usage:   "Storage bucket holding the document",
						Value:   xparser.DefaultBucket,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for the result JSON (default: <file>.json)",
					},
					&cli.StringFlag{
						Name:  "options",
						Usage: "Path to a JSON file with chunk option overrides",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to a BadgerDB result cache directory",
					},
				},
			},
			{
				Name:   "batch",
				Usage:  "Parse several documents concurrently",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document filename in remote storage (repeatable)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "minimal",
						Usage: "Use the minimal option set (fast, fewer features)",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for the result JSON files",
						Value: ".",
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Check whether the parsing service is up",
				Action: healthCommand,
			},
			{
				Name:   "info",
				Usage:  "Show parsing service build information",
				Action: infoCommand,
			},
			{
				Name:   "ingest",
				Usage:  "Extract a knowledge graph from text and write it to Neo4j",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a local text file to ingest",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "schema",
						Usage: "Path to a JSON schema file (node_types, relationship_types, patterns)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent extraction workers",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Target chunk length in characters",
						Value: kg.DefaultChunkSize,
					},
					&cli.BoolFlag{
						Name:  "fail-fast",
						Usage: "Abort on the first failing chunk instead of skipping it",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseCommand(c *cli.Context) error {
	var overrides map[string]any
	if c.Bool("minimal") {
		overrides = xparser.MinimalOptions()
	}
	fileOverrides, err := loadOptions(c.String("options"))
	if err != nil {
		return err
	}
	overrides = mergedOptions(overrides, fileOverrides)

	return runParse(c, "parse", xparser.DefaultParseOptions(), overrides)
}

func chunkCommand(c *cli.Context) error {
	overrides, err := loadOptions(c.String("options"))
	if err != nil {
		return err
	}

	return runParse(c, "chunk", xparser.DefaultChunkOptions(), overrides)
}

// runParse drives one parse or chunk request, going through the result
// cache when one is configured. The cache key is computed from the
// options the client will actually send: the endpoint defaults with the
// overrides merged on top.
func runParse(c *cli.Context, endpoint string, defaults, overrides map[string]any) error {
	ctx := context.Background()

	filename := c.String("file")
	bucket := c.String("bucket")

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	requestOpts := mergedOptions(defaults, overrides)

	var repo storage.ResultRepository
	if cachePath := c.String("cache"); cachePath != "" {
		repo, err = badger.NewResultRepository(cachePath)
		if err != nil {
			return fmt.Errorf("failed to open result cache: %w", err)
		}
		defer repo.Close()
	}

	cacheID := storage.IDFromRequest(endpoint, bucket, filename, requestOpts)
	var result xparser.ParseResult
	if repo != nil {
		record, err := repo.GetResult(ctx, cacheID)
		if err == nil {
			slog.Info("cache hit", "file", filename, "endpoint", endpoint)
			if err := json.Unmarshal(record.Payload, &result); err != nil {
				return fmt.Errorf("failed to decode cached result: %w", err)
			}
			return writeResult(c.String("output"), filename, result)
		}
	}

	switch endpoint {
	case "parse":
		result, err = client.Parse(ctx, filename, bucket, overrides)
	case "chunk":
		result, err = client.ParseChunk(ctx, filename, bucket, overrides)
	}
	if err != nil {
		return fmt.Errorf("%s failed for %s: %w", endpoint, filename, err)
	}

	if repo != nil {
		payload, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("failed to encode result for cache: %w", err)
		}
		record := storage.NewParseRecord(endpoint, bucket, filename, requestOpts, payload)
		if _, err := repo.PutResult(ctx, record); err != nil {
			slog.Warn("failed to cache result", "file", filename, "err", err)
		}
	}

	return writeResult(c.String("output"), filename, result)
}

func batchCommand(c *cli.Context) error {
	ctx := context.Background()

	files := c.StringSlice("file")
	outputDir := c.String("output-dir")

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var overrides map[string]any
	if c.Bool("minimal") {
		overrides = xparser.MinimalOptions()
	}

	results := client.BatchParse(ctx, files, overrides)

	failed := 0
	for i, result := range results {
		if result == nil {
			failed++
			continue
		}
		output := filepath.Join(outputDir, jsonName(files[i]))
		if err := writeResult(output, files[i], result); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Parsed %d/%d documents\n", len(files)-failed, len(files))
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to parse", failed, len(files))
	}
	return nil
}

func healthCommand(c *cli.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if !client.CheckHealth(context.Background()) {
		return fmt.Errorf("parsing service is not healthy")
	}
	fmt.Println("healthy")
	return nil
}

func infoCommand(c *cli.Context) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	info := client.ServerInfo(context.Background())
	if info == nil {
		return fmt.Errorf("parsing service info is unavailable")
	}

	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	text, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	schema, err := loadSchema(c.String("schema"))
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	kgConfig := kg.NewConfig(
		kg.WithHost(cfg.LLM.Host),
		kg.WithLLMModel(cfg.LLM.Model),
		kg.WithEmbeddingModel(cfg.LLM.EmbeddingModel),
		kg.WithToken(cfg.LLM.Token),
	)

	extractor, err := kg.NewExtractor(kgConfig)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	embedder, err := kg.NewEmbedder(kgConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := neo4j.NewStore(&neo4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		return fmt.Errorf("failed to open graph store: %w", err)
	}
	defer store.Close(ctx)

	if err := store.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("graph database is unreachable: %w", err)
	}

	onError := kg.OnErrorIgnore
	if c.Bool("fail-fast") {
		onError = kg.OnErrorFail
	}

	pipeline, err := kg.NewPipeline(extractor, embedder, store, schema,
		kg.WithPoolSize(c.Int("workers")),
		kg.WithChunkSize(c.Int("chunk-size")),
		kg.WithOnError(onError),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	if err := pipeline.Run(ctx, string(text)); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	return nil
}

// newClient builds a parsing service client from the environment.
func newClient() (*xparser.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return xparser.New(xparser.NewConfig(cfg.Parser.URL,
		xparser.WithTimeout(cfg.Parser.Timeout),
		xparser.WithMaxConcurrent(cfg.Parser.MaxConcurrent),
	))
}

// loadOptions reads option overrides from a JSON file. An empty path
// returns nil overrides.
func loadOptions(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}
	var opts map[string]any
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse options file: %w", err)
	}
	return opts, nil
}

// mergedOptions mirrors the client's shallow merge so cache keys match
// the request the client actually sends.
func mergedOptions(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// loadSchema reads a graph schema from a JSON file, falling back to a
// small demonstration schema when no file is given.
func loadSchema(path string) (*graph.Schema, error) {
	if path == "" {
		return defaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	var schema graph.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &schema, nil
}

func defaultSchema() *graph.Schema {
	return &graph.Schema{
		NodeTypes:         []string{"Person", "House", "Planet", "Organization"},
		RelationshipTypes: []string{"PARENT_OF", "HEIR_OF", "RULES", "MEMBER_OF"},
		Patterns: []graph.Pattern{
			{Source: "Person", Relationship: "PARENT_OF", Target: "Person"},
			{Source: "Person", Relationship: "HEIR_OF", Target: "House"},
			{Source: "Person", Relationship: "MEMBER_OF", Target: "Organization"},
			{Source: "House", Relationship: "RULES", Target: "Planet"},
		},
	}
}

// writeResult writes a result as indented JSON to the output path, or
// <file>.json next to the working directory when no path is given.
func writeResult(output, filename string, result xparser.ParseResult) error {
	if output == "" {
		output = jsonName(filename)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	return nil
}

// jsonName swaps a document's extension for .json.
func jsonName(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".json"
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
