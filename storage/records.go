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


package storage

import (
	"encoding/binary"
	"encoding/json"
	"sort"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for cached records. It is generated by
// content-based hashing so that identical requests always map to the
// same cache slot.
type ID uint64

// IDFromRequest generates a deterministic ID for a parse request using
// BLAKE2b hashing. Option order does not affect the ID.
func IDFromRequest(endpoint, bucket, filename string, options map[string]any) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(endpoint))
	h.Write([]byte{0})
	h.Write([]byte(bucket))
	h.Write([]byte{0})
	h.Write([]byte(filename))
	h.Write([]byte{0})

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		v, _ := json.Marshal(options[k])
		h.Write(v)
		h.Write([]byte{0})
	}

	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ParseRecord is one cached parsing service response.
type ParseRecord struct {
	// ID is the content-based cache key.
	ID ID

	// Endpoint is the service operation that produced the payload,
	// "parse" or "chunk".
	Endpoint string

	// Filename and Bucket identify the document in remote storage.
	Filename string
	Bucket   string

	// Options are the request options the payload was produced with.
	Options map[string]any

	// Payload is the raw JSON response from the service.
	Payload json.RawMessage

	InsertedAt time.Time
	UpdatedAt  time.Time
}

// NewParseRecord builds a record for a request/response pair with the ID
// computed from the request fields.
func NewParseRecord(endpoint, bucket, filename string, options map[string]any, payload json.RawMessage) *ParseRecord {
	return &ParseRecord{
		ID:       IDFromRequest(endpoint, bucket, filename, options),
		Endpoint: endpoint,
		Filename: filename,
		Bucket:   bucket,
		Options:  options,
		Payload:  payload,
	}
}
