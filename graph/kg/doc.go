// Package kg provides the knowledge graph ingestion pipeline and its
// LLM-backed services.
//
// The Pipeline type manages the ingestion workflow for free text:
//   - Splitting text into chunks
//   - Extracting schema-typed entities and relationships per chunk
//   - Embedding entity tuples
//   - Upserting the merged graph fragment into a store
//
// Chunk extraction is performed concurrently using a worker pool. With the
// default OnErrorIgnore policy, a failing chunk is logged and skipped so
// it never aborts the run.
package kg
