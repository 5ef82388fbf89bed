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


package graph

import (
	"fmt"
	"slices"
)

// Pattern constrains which relationships the schema permits:
// (Source)-[Relationship]->(Target).
type Pattern struct {
	Source       string `json:"source"`
	Relationship string `json:"relationship"`
	Target       string `json:"target"`
}

// Schema declares the node types, relationship types, and permitted
// patterns for an ingestion run. Extracted fragments outside the schema
// are dropped before they reach the store.
type Schema struct {
	NodeTypes         []string  `json:"node_types"`
	RelationshipTypes []string  `json:"relationship_types"`
	Patterns          []Pattern `json:"patterns"`
}

// Validate checks that the schema is complete and internally consistent:
// node types must be present, and every pattern must reference declared
// node and relationship types.
func (s *Schema) Validate() error {
	if len(s.NodeTypes) == 0 {
		return fmt.Errorf("%w: no node types", ErrInvalidSchema)
	}
	if len(s.RelationshipTypes) == 0 {
		return fmt.Errorf("%w: no relationship types", ErrInvalidSchema)
	}
	for _, p := range s.Patterns {
		if !s.HasNodeType(p.Source) {
			return fmt.Errorf("%w: pattern source %q is not a declared node type", ErrInvalidSchema, p.Source)
		}
		if !s.HasNodeType(p.Target) {
			return fmt.Errorf("%w: pattern target %q is not a declared node type", ErrInvalidSchema, p.Target)
		}
		if !s.HasRelationshipType(p.Relationship) {
			return fmt.Errorf("%w: pattern relationship %q is not a declared relationship type", ErrInvalidSchema, p.Relationship)
		}
	}
	return nil
}

// HasNodeType reports whether t is a declared node type.
func (s *Schema) HasNodeType(t string) bool {
	return slices.Contains(s.NodeTypes, t)
}

// HasRelationshipType reports whether t is a declared relationship type.
func (s *Schema) HasRelationshipType(t string) bool {
	return slices.Contains(s.RelationshipTypes, t)
}

// Allows reports whether the schema permits a relationship of relType
// from sourceType to targetType. With no patterns declared, any
// combination of declared types is allowed.
func (s *Schema) Allows(sourceType, relType, targetType string) bool {
	if !s.HasNodeType(sourceType) || !s.HasNodeType(targetType) || !s.HasRelationshipType(relType) {
		return false
	}
	if len(s.Patterns) == 0 {
		return true
	}
	for _, p := range s.Patterns {
		if p.Source == sourceType && p.Relationship == relType && p.Target == targetType {
			return true
		}
	}
	return false
}

// Conform filters an extraction down to schema-permitted content:
// entities with undeclared types and relationships outside the permitted
// patterns are dropped. The input is not modified.
func (s *Schema) Conform(ex *Extraction) *Extraction {
	out := &Extraction{}
	for _, e := range ex.Entities {
		if s.HasNodeType(e.Type) {
			out.Entities = append(out.Entities, e)
		}
	}
	for _, r := range ex.Relationships {
		if s.Allows(r.SourceType, r.Type, r.TargetType) {
			out.Relationships = append(out.Relationships, r)
		}
	}
	return out
}
