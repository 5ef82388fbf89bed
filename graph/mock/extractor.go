package mock

import (
	"context"
	"sync"

	"github.com/Sbeom12/graph-db-test/graph"
)

// MockExtractor is a test double for graph.Extractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractGraphFunc is called by ExtractGraph if set.
	// If nil, returns the canned Extraction (empty by default).
	ExtractGraphFunc func(ctx context.Context, text string, schema *graph.Schema) (*graph.Extraction, error)

	// Extraction is the canned result returned when ExtractGraphFunc is nil.
	Extraction *graph.Extraction

	mu        sync.Mutex
	callCount int
	texts     []string
}

// NewMockExtractor creates a mock extractor that returns an empty
// extraction by default.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// ExtractGraph records the call and returns the injected behavior or the
// canned extraction.
func (m *MockExtractor) ExtractGraph(ctx context.Context, text string, schema *graph.Schema) (*graph.Extraction, error) {
	m.mu.Lock()
	m.callCount++
	m.texts = append(m.texts, text)
	m.mu.Unlock()

	if m.ExtractGraphFunc != nil {
		return m.ExtractGraphFunc(ctx, text, schema)
	}
	if m.Extraction != nil {
		return m.Extraction, nil
	}
	return &graph.Extraction{}, nil
}

// CallCount returns the number of ExtractGraph calls.
func (m *MockExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Texts returns the texts passed to ExtractGraph, in call order.
func (m *MockExtractor) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}
