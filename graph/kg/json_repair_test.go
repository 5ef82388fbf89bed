package kg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean passthrough",
			input: `{"entities": []}`,
			want:  `{"entities": []}`,
		},
		{
			name:  "code fence",
			input: "```json\n{\"entities\": []}\n```",
			want:  `{"entities": []}`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"entities\": []}\n```",
			want:  `{"entities": []}`,
		},
		{
			name:  "trailing comma in object",
			input: `{"name": "Paul",}`,
			want:  `{"name": "Paul"}`,
		},
		{
			name:  "trailing comma in array",
			input: `{"entities": ["a", "b",]}`,
			want:  `{"entities": ["a", "b"]}`,
		},
		{
			name:  "comma inside string kept",
			input: `{"name": "a, }"}`,
			want:  `{"name": "a, }"}`,
		},
		{
			name:  "missing opening quote on key",
			input: `{name": "Paul"}`,
			want:  `{"name": "Paul"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)), "repaired output should be valid JSON")
		})
	}
}

func TestRepairJSONRealisticResponse(t *testing.T) {
	raw := "```json\n" + `{
  "entities": [
    {"name": "Paul Atreides", "type": "Person"},
    {"name": "Arrakis", "type": "Planet"},
  ],
  "relationships": [
    {"source": "Paul Atreides", "relationship": "RULES", "target": "Arrakis"},
  ],
}` + "\n```"

	var wire wireExtraction
	require.NoError(t, json.Unmarshal([]byte(repairJSON(raw)), &wire))
	require.Len(t, wire.Entities, 2)
	assert.Equal(t, "Paul Atreides", wire.Entities[0].Name)
	require.Len(t, wire.Relationships, 1)
	assert.Equal(t, "RULES", wire.Relationships[0].Relationship)
}
