// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package kg

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Sbeom12/graph-db-test/graph"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Extractor implements graph.Extractor using OpenAI-compatible chat APIs.
type Extractor struct {
	client llms.Model
	logger *slog.Logger
}

// wireEntity and wireRelationship match the JSON structure expected from
// the LLM.
type wireEntity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type wireRelationship struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Target       string `json:"target"`
}

// wireExtraction is the wrapper structure for the LLM's JSON response.
type wireExtraction struct {
	Entities      []wireEntity       `json:"entities"`
	Relationships []wireRelationship `json:"relationships"`
}

// newExtractor is an internal constructor that returns the concrete type.
func newExtractor(cfg *Config) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.LLMHost),
		openai.WithToken(cfg.Token),
		openai.WithModel(cfg.LLMModel),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client: client,
		logger: slog.Default().With("component", "kg-extractor"),
	}, nil
}

// NewExtractor creates a graph extractor using the provided configuration.
//
// Returns graph.Extractor interface to enforce abstraction.
func NewExtractor(cfg *Config) (graph.Extractor, error) {
	return newExtractor(cfg)
}

// ExtractGraph extracts typed entities and relationships from text using
// an LLM constrained to the schema's vocabulary.
func (e *Extractor) ExtractGraph(ctx context.Context, text string, schema *graph.Schema) (*graph.Extraction, error) {
	systemPrompt := buildExtractionPrompt(schema)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var wire wireExtraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return &graph.Extraction{}, nil
		}

		responseText := repairJSON(response.Choices[0].Content)

		if err := json.Unmarshal([]byte(responseText), &wire); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extraction response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extraction response after retries", "err", lastErr)
		return nil, lastErr
	}

	extraction := e.convert(&wire)
	e.logger.Debug("extracted graph fragment",
		"entities", len(extraction.Entities),
		"relationships", len(extraction.Relationships))
	return extraction, nil
}

// convert resolves the wire representation into graph types. Relationship
// endpoints are typed by looking up the extracted entity with the same
// name; relationships referencing unknown entities are dropped.
func (e *Extractor) convert(wire *wireExtraction) *graph.Extraction {
	out := &graph.Extraction{}
	typesByName := make(map[string]string, len(wire.Entities))

	for _, we := range wire.Entities {
		if we.Name == "" || we.Type == "" {
			continue
		}
		if _, seen := typesByName[we.Name]; seen {
			continue
		}
		typesByName[we.Name] = we.Type
		out.Entities = append(out.Entities, graph.Entity{Name: we.Name, Type: we.Type})
	}

	for _, wr := range wire.Relationships {
		sourceType, ok := typesByName[wr.Source]
		if !ok {
			e.logger.Debug("relationship source not in entity list", "source", wr.Source)
			continue
		}
		targetType, ok := typesByName[wr.Target]
		if !ok {
			e.logger.Debug("relationship target not in entity list", "target", wr.Target)
			continue
		}
		out.Relationships = append(out.Relationships, graph.Relationship{
			SourceName: wr.Source,
			SourceType: sourceType,
			Type:       wr.Relationship,
			TargetName: wr.Target,
			TargetType: targetType,
		})
	}
	return out
}
