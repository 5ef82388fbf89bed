package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	return &Schema{
		NodeTypes:         []string{"Person", "House", "Planet"},
		RelationshipTypes: []string{"PARENT_OF", "HEIR_OF", "RULES"},
		Patterns: []Pattern{
			{Source: "Person", Relationship: "PARENT_OF", Target: "Person"},
			{Source: "Person", Relationship: "HEIR_OF", Target: "House"},
			{Source: "House", Relationship: "RULES", Target: "Planet"},
		},
	}
}

func TestSchemaValidate(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		require.NoError(t, testSchema().Validate())
	})

	t.Run("no node types", func(t *testing.T) {
		s := &Schema{RelationshipTypes: []string{"KNOWS"}}
		assert.ErrorIs(t, s.Validate(), ErrInvalidSchema)
	})

	t.Run("no relationship types", func(t *testing.T) {
		s := &Schema{NodeTypes: []string{"Person"}}
		assert.ErrorIs(t, s.Validate(), ErrInvalidSchema)
	})

	t.Run("pattern with undeclared source", func(t *testing.T) {
		s := testSchema()
		s.Patterns = append(s.Patterns, Pattern{Source: "Dragon", Relationship: "RULES", Target: "Planet"})
		assert.ErrorIs(t, s.Validate(), ErrInvalidSchema)
	})

	t.Run("pattern with undeclared relationship", func(t *testing.T) {
		s := testSchema()
		s.Patterns = append(s.Patterns, Pattern{Source: "Person", Relationship: "MARRIED_TO", Target: "Person"})
		assert.ErrorIs(t, s.Validate(), ErrInvalidSchema)
	})
}

func TestSchemaAllows(t *testing.T) {
	s := testSchema()

	assert.True(t, s.Allows("Person", "HEIR_OF", "House"))
	assert.False(t, s.Allows("House", "HEIR_OF", "Person"))
	assert.False(t, s.Allows("Person", "RULES", "Planet"))
	assert.False(t, s.Allows("Dragon", "RULES", "Planet"))

	t.Run("no patterns allows any declared combination", func(t *testing.T) {
		open := &Schema{
			NodeTypes:         []string{"Person", "Planet"},
			RelationshipTypes: []string{"VISITS"},
		}
		assert.True(t, open.Allows("Person", "VISITS", "Planet"))
		assert.False(t, open.Allows("Person", "RULES", "Planet"))
	})
}

func TestSchemaConform(t *testing.T) {
	s := testSchema()
	ex := &Extraction{
		Entities: []Entity{
			{Name: "paul atreides", Type: "Person"},
			{Name: "house atreides", Type: "House"},
			{Name: "spice", Type: "Substance"}, // undeclared type
		},
		Relationships: []Relationship{
			{SourceName: "paul atreides", SourceType: "Person", Type: "HEIR_OF", TargetName: "house atreides", TargetType: "House"},
			{SourceName: "house atreides", SourceType: "House", Type: "HEIR_OF", TargetName: "paul atreides", TargetType: "Person"}, // pattern violation
		},
	}

	conformed := s.Conform(ex)
	require.Len(t, conformed.Entities, 2)
	require.Len(t, conformed.Relationships, 1)
	assert.Equal(t, "HEIR_OF", conformed.Relationships[0].Type)
	assert.Equal(t, "paul atreides", conformed.Relationships[0].SourceName)

	// Input untouched
	assert.Len(t, ex.Entities, 3)
	assert.Len(t, ex.Relationships, 2)
}

func TestEntityID(t *testing.T) {
	a := Entity{Name: "caladan", Type: "Planet"}
	b := Entity{Name: "caladan", Type: "Planet"}
	c := Entity{Name: "caladan", Type: "House"}

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Equal(t, "(Planet,caladan)", a.Tuple())
	assert.Equal(t, IDFromTuple("Planet", "caladan"), a.ID())
}
