package kg

import (
	"fmt"
	"strings"

	"github.com/Sbeom12/graph-db-test/graph"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "type": {"type": "string"}
        },
        "required": ["name", "type"],
        "additionalProperties": false
      }
    },
    "relationships": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "relationship": {"type": "string"},
          "target": {"type": "string"}
        },
        "required": ["source", "relationship", "target"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities", "relationships"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Extract the entities and relationships mentioned in the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Entity names must be lowercase and match the text's wording as closely as possible.
- Entity type must match exactly one of the listed node types: %s.
- Relationship must match exactly one of the listed relationship types: %s.
- Only emit relationships that fit one of the permitted patterns:
%s
- Source and target of every relationship must be names from the entities list.
- Include only entities and relationships that are explicitly mentioned or clearly implied by the text. Do not hallucinate.
- If nothing can be extracted, return "entities": [] and "relationships": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Paul is the heir of House Atreides, an aristocratic family that rules the planet Caladan."
Node types: Person, House, Planet. Relationship types: HEIR_OF, RULES.
Output:
{
  "entities": [
    {"name":"paul","type":"Person"},
    {"name":"house atreides","type":"House"},
    {"name":"caladan","type":"Planet"}
  ],
  "relationships": [
    {"source":"paul","relationship":"HEIR_OF","target":"house atreides"},
    {"source":"house atreides","relationship":"RULES","target":"caladan"}
  ]
}`

// buildExtractionPrompt creates the system prompt with the schema's
// vocabulary embedded.
func buildExtractionPrompt(schema *graph.Schema) string {
	return fmt.Sprintf(extractionPromptTemplate,
		extractionResponseSchema,
		strings.Join(schema.NodeTypes, ", "),
		strings.Join(schema.RelationshipTypes, ", "),
		formatPatterns(schema))
}

// formatPatterns renders permitted patterns one per line as
// "  (Source)-[RELATIONSHIP]->(Target)".
func formatPatterns(schema *graph.Schema) string {
	if len(schema.Patterns) == 0 {
		return "  any combination of the listed node and relationship types"
	}
	var sb strings.Builder
	for i, p := range schema.Patterns {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  (%s)-[%s]->(%s)", p.Source, p.Relationship, p.Target)
	}
	return sb.String()
}
