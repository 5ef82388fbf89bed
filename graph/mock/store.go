package mock

import (
	"context"
	"sync"

	"github.com/Sbeom12/graph-db-test/graph"
)

// MockStore is a test double for graph.Store. It records upserted
// entities and relationships in memory.
type MockStore struct {
	// UpsertEntitiesFunc is called by UpsertEntities if set.
	UpsertEntitiesFunc func(ctx context.Context, entities []graph.Entity) error

	// UpsertRelationshipsFunc is called by UpsertRelationships if set.
	UpsertRelationshipsFunc func(ctx context.Context, relationships []graph.Relationship) error

	mu            sync.Mutex
	entities      []graph.Entity
	relationships []graph.Relationship
	closed        bool
}

// NewMockStore creates a mock store that records all upserts.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// UpsertEntities records the entities and applies the injected behavior,
// if any.
func (m *MockStore) UpsertEntities(ctx context.Context, entities []graph.Entity) error {
	if m.UpsertEntitiesFunc != nil {
		if err := m.UpsertEntitiesFunc(ctx, entities); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities = append(m.entities, entities...)
	return nil
}

// UpsertRelationships records the relationships and applies the injected
// behavior, if any.
func (m *MockStore) UpsertRelationships(ctx context.Context, relationships []graph.Relationship) error {
	if m.UpsertRelationshipsFunc != nil {
		if err := m.UpsertRelationshipsFunc(ctx, relationships); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.relationships = append(m.relationships, relationships...)
	return nil
}

// Close marks the store closed.
func (m *MockStore) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Entities returns the recorded entities.
func (m *MockStore) Entities() []graph.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]graph.Entity(nil), m.entities...)
}

// Relationships returns the recorded relationships.
func (m *MockStore) Relationships() []graph.Relationship {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]graph.Relationship(nil), m.relationships...)
}

// Closed reports whether Close was called.
func (m *MockStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
