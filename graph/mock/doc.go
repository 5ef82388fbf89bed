// Package mock provides test doubles for the graph interfaces.
//
// The mocks allow custom behavior injection via function fields and
// record calls for assertions, so pipeline logic can be tested without
// an LLM, embedding service, or graph database.
package mock
