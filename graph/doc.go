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


// Package graph defines the abstractions for schema-driven knowledge graph
// ingestion: extracting typed entities and relationships from text,
// embedding them, and upserting them into a graph store.
//
// The package holds only interfaces and domain types, following the
// dependency inversion principle: business logic depends on Extractor,
// Embedder, and Store rather than on concrete services.
//
// Implementation subpackages:
//
//   - graph/kg: the ingestion pipeline plus LLM-backed Extractor and
//     Embedder built on OpenAI-compatible APIs
//   - graph/neo4j: a Store backed by a Neo4j database
//   - graph/mock: test doubles for unit testing without external services
package graph
