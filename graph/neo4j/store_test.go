package neo4j

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "complete",
			config: Config{URI: "neo4j://localhost:7687", Username: "neo4j", Password: "secret"},
		},
		{
			name:    "missing URI",
			config:  Config{Username: "neo4j", Password: "secret"},
			wantErr: true,
		},
		{
			name:    "missing username",
			config:  Config{URI: "neo4j://localhost:7687", Password: "secret"},
			wantErr: true,
		},
		{
			name:    "missing password",
			config:  Config{URI: "neo4j://localhost:7687", Username: "neo4j"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEscapeSymbol(t *testing.T) {
	assert.Equal(t, "Person", escapeSymbol("Person"))
	assert.Equal(t, "PARENT_OF", escapeSymbol("PARENT_OF"))
	assert.Equal(t, "Bad Label", escapeSymbol("Bad `Label"))
}

func TestVectorParam(t *testing.T) {
	assert.Nil(t, vectorParam(nil))
	assert.Nil(t, vectorParam([]float32{}))
	assert.Equal(t, []float64{0.5, 1.5}, vectorParam([]float32{0.5, 1.5}))
}
