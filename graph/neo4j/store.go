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


package neo4j

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Sbeom12/graph-db-test/graph"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds Neo4j connection settings.
type Config struct {
	// URI is the bolt/neo4j connection URI.
	// Example: "neo4j://localhost:7687"
	URI      string
	Username string
	Password string

	// Database is the target database name. Empty selects the server
	// default.
	Database string
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("neo4j config: URI is required")
	}
	if c.Username == "" {
		return errors.New("neo4j config: Username is required")
	}
	if c.Password == "" {
		return errors.New("neo4j config: Password is required")
	}
	return nil
}

// Store implements graph.Store backed by a Neo4j database. Nodes are
// MERGEd by (label, name) so repeated ingestion runs are idempotent.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

var _ graph.Store = (*Store)(nil)

// NewStore opens a Neo4j driver for the given configuration. The driver
// connects lazily; use VerifyConnectivity to probe the server.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("neo4j config required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, err
	}

	return &Store{
		driver:   driver,
		database: cfg.Database,
		logger:   slog.Default().With("component", "neo4j-store"),
	}, nil
}

// VerifyConnectivity checks that the server is reachable with the
// configured credentials.
func (s *Store) VerifyConnectivity(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// UpsertEntities MERGEs one node per entity, keyed by label and name,
// and sets its deterministic ID and embedding.
func (s *Store) UpsertEntities(ctx context.Context, entities []graph.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, entity := range entities {
			// Labels cannot be parameterized in Cypher; types come
			// from a validated schema and are escaped anyway.
			query := fmt.Sprintf(
				"MERGE (n:`%s` {name: $name}) SET n.entity_id = $entity_id, n.embedding = $embedding",
				escapeSymbol(entity.Type))
			params := map[string]any{
				"name":      entity.Name,
				"entity_id": strconv.FormatUint(uint64(entity.ID()), 16),
				"embedding": vectorParam(entity.Vector),
			}
			if _, err := tx.Run(ctx, query, params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		s.logger.Error("entity upsert failed", "count", len(entities), "err", err)
		return err
	}

	s.logger.Debug("entities upserted", "count", len(entities))
	return nil
}

// UpsertRelationships MERGEs one edge per relationship between nodes
// previously written by UpsertEntities. Relationships whose endpoints
// are missing are silently skipped by MATCH semantics.
func (s *Store) UpsertRelationships(ctx context.Context, relationships []graph.Relationship) error {
	if len(relationships) == 0 {
		return nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, rel := range relationships {
			query := fmt.Sprintf(
				"MATCH (a:`%s` {name: $source}) MATCH (b:`%s` {name: $target}) MERGE (a)-[:`%s`]->(b)",
				escapeSymbol(rel.SourceType),
				escapeSymbol(rel.TargetType),
				escapeSymbol(rel.Type))
			params := map[string]any{
				"source": rel.SourceName,
				"target": rel.TargetName,
			}
			if _, err := tx.Run(ctx, query, params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		s.logger.Error("relationship upsert failed", "count", len(relationships), "err", err)
		return err
	}

	s.logger.Debug("relationships upserted", "count", len(relationships))
	return nil
}

// Close shuts down the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// escapeSymbol makes a schema-supplied label or relationship type safe
// to splice into a backtick-quoted Cypher symbol.
func escapeSymbol(symbol string) string {
	out := make([]rune, 0, len(symbol))
	for _, r := range symbol {
		if r == '`' {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// vectorParam converts an embedding to a driver-friendly parameter.
// A missing vector becomes null, which clears the property on MERGE.
func vectorParam(vector []float32) any {
	if len(vector) == 0 {
		return nil
	}
	values := make([]float64, len(vector))
	for i, v := range vector {
		values[i] = float64(v)
	}
	return values
}
