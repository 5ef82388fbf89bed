package storage

import (
	"context"
)

// ResultRepository provides operations for the parse-result cache.
// Implementations must be thread-safe and support concurrent access.
type ResultRepository interface {
	// PutResult stores a record, overwriting any previous record with
	// the same ID. Sets InsertedAt on first write and UpdatedAt always.
	PutResult(ctx context.Context, record *ParseRecord) (*ParseRecord, error)

	// GetResult retrieves a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetResult(ctx context.Context, id ID) (*ParseRecord, error)

	// DeleteResult removes a record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	DeleteResult(ctx context.Context, id ID) error

	// ListResults returns all cached records, newest first.
	ListResults(ctx context.Context) ([]*ParseRecord, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
