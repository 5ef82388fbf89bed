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


// Package storage provides the storage abstraction layer for parse
// results.
//
// Parsing a document is expensive, so responses from the parsing service
// are cached as ParseRecord values keyed by a content-based ID derived
// from the request (endpoint, bucket, filename, options). Re-running the
// same request hits the cache instead of the service.
//
// # Constructor Return Type Pattern
//
// Public constructors return interfaces to enforce abstraction and allow
// alternative backends:
//
//	repo, err := badger.NewResultRepository(path)  // returns storage.ResultRepository
//
// Internal constructors may return concrete types since they are only
// used within the implementation package.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support. Pass context.Background() for operations without
// specific timeout requirements.
package storage
