package kg

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Sbeom12/graph-db-test/graph"
	"github.com/Sbeom12/graph-db-test/graph/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *graph.Schema {
	return &graph.Schema{
		NodeTypes:         []string{"Person", "House", "Planet"},
		RelationshipTypes: []string{"PARENT_OF", "HEIR_OF", "RULES"},
		Patterns: []graph.Pattern{
			{Source: "Person", Relationship: "PARENT_OF", Target: "Person"},
			{Source: "Person", Relationship: "HEIR_OF", Target: "House"},
			{Source: "House", Relationship: "RULES", Target: "Planet"},
		},
	}
}

func testExtraction() *graph.Extraction {
	return &graph.Extraction{
		Entities: []graph.Entity{
			{Name: "Paul Atreides", Type: "Person"},
			{Name: "House Atreides", Type: "House"},
			{Name: "Arrakis", Type: "Planet"},
		},
		Relationships: []graph.Relationship{
			{SourceName: "Paul Atreides", SourceType: "Person", Type: "HEIR_OF", TargetName: "House Atreides", TargetType: "House"},
			{SourceName: "House Atreides", SourceType: "House", Type: "RULES", TargetName: "Arrakis", TargetType: "Planet"},
		},
	}
}

func TestNewPipelineValidation(t *testing.T) {
	extractor := mock.NewMockExtractor()
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()
	schema := testSchema()

	tests := []struct {
		name    string
		build   func() (*Pipeline, error)
		wantErr error
	}{
		{
			name: "nil extractor",
			build: func() (*Pipeline, error) {
				return NewPipeline(nil, embedder, store, schema)
			},
			wantErr: graph.ErrExtractorRequired,
		},
		{
			name: "nil embedder",
			build: func() (*Pipeline, error) {
				return NewPipeline(extractor, nil, store, schema)
			},
			wantErr: graph.ErrEmbedderRequired,
		},
		{
			name: "nil store",
			build: func() (*Pipeline, error) {
				return NewPipeline(extractor, embedder, nil, schema)
			},
			wantErr: graph.ErrStoreRequired,
		},
		{
			name: "nil schema",
			build: func() (*Pipeline, error) {
				return NewPipeline(extractor, embedder, store, nil)
			},
			wantErr: graph.ErrSchemaRequired,
		},
		{
			name: "invalid schema",
			build: func() (*Pipeline, error) {
				return NewPipeline(extractor, embedder, store, &graph.Schema{})
			},
			wantErr: graph.ErrInvalidSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPipelineRun(t *testing.T) {
	extractor := mock.NewMockExtractor()
	extractor.Extraction = testExtraction()
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema())
	require.NoError(t, err)
	defer p.Release()

	err = p.Run(context.Background(), "Paul Atreides is the heir of House Atreides, which rules Arrakis.")
	require.NoError(t, err)

	entities := store.Entities()
	require.Len(t, entities, 3)
	for _, entity := range entities {
		assert.NotEmpty(t, entity.Vector, "entity %s should carry an embedding", entity.Name)
	}
	assert.Len(t, store.Relationships(), 2)
}

func TestPipelineRunEmptyText(t *testing.T) {
	extractor := mock.NewMockExtractor()
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema())
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Run(context.Background(), "   \n  "))
	assert.Zero(t, extractor.CallCount())
	assert.Empty(t, store.Entities())
}

func TestPipelineRunChunksText(t *testing.T) {
	extractor := mock.NewMockExtractor()
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema(), WithChunkSize(20), WithPoolSize(2))
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Run(context.Background(), "one two three four five six seven eight nine ten eleven twelve"))
	assert.Greater(t, extractor.CallCount(), 1)
}

func TestPipelineDeduplicatesAcrossChunks(t *testing.T) {
	// Every chunk reports the same fragment; the store must see it once.
	extractor := mock.NewMockExtractor()
	extractor.Extraction = testExtraction()
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema(), WithChunkSize(10))
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Run(context.Background(), "enough words here to force the splitter into several chunks"))
	require.Greater(t, extractor.CallCount(), 1)
	assert.Len(t, store.Entities(), 3)
	assert.Len(t, store.Relationships(), 2)
}

func TestPipelineConformsToSchema(t *testing.T) {
	extractor := mock.NewMockExtractor()
	extractor.Extraction = &graph.Extraction{
		Entities: []graph.Entity{
			{Name: "Paul Atreides", Type: "Person"},
			{Name: "The Voice", Type: "Ability"}, // undeclared type
		},
		Relationships: []graph.Relationship{
			// RULES is not allowed between two Person nodes.
			{SourceName: "Paul Atreides", SourceType: "Person", Type: "RULES", TargetName: "Paul Atreides", TargetType: "Person"},
		},
	}
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema())
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Run(context.Background(), "some text"))

	entities := store.Entities()
	require.Len(t, entities, 1)
	assert.Equal(t, "Paul Atreides", entities[0].Name)
	assert.Empty(t, store.Relationships())
}

func TestPipelineOnErrorIgnoreSkipsFailedChunks(t *testing.T) {
	var calls atomic.Int64
	extractor := mock.NewMockExtractor()
	extractor.ExtractGraphFunc = func(ctx context.Context, text string, schema *graph.Schema) (*graph.Extraction, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("model unavailable")
		}
		return testExtraction(), nil
	}
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema(), WithChunkSize(10), WithPoolSize(1))
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Run(context.Background(), "enough words here to force the splitter into several chunks"))
	assert.Len(t, store.Entities(), 3)
}

func TestPipelineOnErrorFailAborts(t *testing.T) {
	extractErr := errors.New("model unavailable")
	extractor := mock.NewMockExtractor()
	extractor.ExtractGraphFunc = func(ctx context.Context, text string, schema *graph.Schema) (*graph.Extraction, error) {
		return nil, extractErr
	}
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema(), WithOnError(OnErrorFail))
	require.NoError(t, err)
	defer p.Release()

	err = p.Run(context.Background(), "some text")
	assert.ErrorIs(t, err, extractErr)
	assert.Empty(t, store.Entities())
}

func TestPipelineEmbeddingFailureIgnored(t *testing.T) {
	extractor := mock.NewMockExtractor()
	extractor.Extraction = testExtraction()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema())
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Run(context.Background(), "some text"))

	entities := store.Entities()
	require.Len(t, entities, 3)
	for _, entity := range entities {
		assert.Empty(t, entity.Vector)
	}
}

func TestPipelineEmbeddingFailureFails(t *testing.T) {
	embedErr := errors.New("embedding service down")
	extractor := mock.NewMockExtractor()
	extractor.Extraction = testExtraction()
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedErr
	}
	store := mock.NewMockStore()

	p, err := NewPipeline(extractor, embedder, store, testSchema(), WithOnError(OnErrorFail))
	require.NoError(t, err)
	defer p.Release()

	err = p.Run(context.Background(), "some text")
	assert.ErrorIs(t, err, embedErr)
	assert.Empty(t, store.Entities())
}

func TestPipelineStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	extractor := mock.NewMockExtractor()
	extractor.Extraction = testExtraction()
	embedder := mock.NewMockEmbedder()
	store := mock.NewMockStore()
	store.UpsertEntitiesFunc = func(ctx context.Context, entities []graph.Entity) error {
		return storeErr
	}

	p, err := NewPipeline(extractor, embedder, store, testSchema())
	require.NoError(t, err)
	defer p.Release()

	assert.ErrorIs(t, p.Run(context.Background(), "some text"), storeErr)
}
