package graph

import "errors"

var (
	// ErrInvalidSchema indicates a schema failed validation.
	ErrInvalidSchema = errors.New("invalid graph schema")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrStoreRequired is returned when a graph store is not provided.
	ErrStoreRequired = errors.New("graph store required")

	// ErrSchemaRequired is returned when a schema is not provided.
	ErrSchemaRequired = errors.New("schema required")
)
