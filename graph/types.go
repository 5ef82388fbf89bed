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
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for graph entities. It is generated by
// content-based hashing so that identical (type, name) tuples always map
// to the same node.
type ID uint64

// IDFromTuple generates a deterministic ID from an entity's type and name
// using BLAKE2b hashing.
func IDFromTuple(entityType, name string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte("(" + entityType + "," + name + ")"))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Entity is a typed node extracted from text. Vector is populated by the
// pipeline before the entity reaches the store.
type Entity struct {
	Name   string
	Type   string
	Vector []float32
}

// Tuple returns a string representation of the entity as "(Type,Name)".
// This is the input for deterministic IDs and entity embeddings.
func (e *Entity) Tuple() string {
	return "(" + e.Type + "," + e.Name + ")"
}

// ID returns the deterministic identifier for the entity.
func (e *Entity) ID() ID {
	return IDFromTuple(e.Type, e.Name)
}

// Relationship is a typed edge between two extracted entities, referenced
// by name and type.
type Relationship struct {
	SourceName string
	SourceType string
	Type       string
	TargetName string
	TargetType string
}

// Extraction is the graph fragment produced from one piece of text.
type Extraction struct {
	Entities      []Entity
	Relationships []Relationship
}
