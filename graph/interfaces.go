package graph

import "context"

// Extractor extracts a typed entity/relationship graph from text.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// ExtractGraph analyzes text and returns the entities and
	// relationships it mentions, constrained to the given schema's
	// vocabulary. Returns an empty extraction if nothing is found.
	ExtractGraph(ctx context.Context, text string, schema *Schema) (*Extraction, error)
}

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice is in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Store persists extracted graph fragments. Upserts are idempotent:
// writing the same entity or relationship twice must not duplicate it.
type Store interface {
	// UpsertEntities writes or updates typed nodes with their embeddings.
	UpsertEntities(ctx context.Context, entities []Entity) error

	// UpsertRelationships writes or updates edges between existing nodes.
	UpsertRelationships(ctx context.Context, relationships []Relationship) error

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
