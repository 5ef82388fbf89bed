// Package neo4j persists extracted knowledge graphs to a Neo4j
// database. Entities become labeled nodes keyed by name, relationships
// become typed edges, and both writes are idempotent MERGE operations.
package neo4j
