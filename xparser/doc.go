// Package xparser provides a concurrency-bounded client for the X-Parser
// document parsing service.
//
// The Client wraps the service's synchronous HTTP API so that many documents
// can be parsed at once without overwhelming the server: every request passes
// through a shared admission pool of fixed capacity, and batch operations fan
// out over that pool with per-document failure isolation.
//
// Two parsing endpoints are exposed:
//
//   - Parse targets the v1 layout endpoint and returns layout JSON
//   - ParseChunk targets the v2 chunk endpoint and returns chunked output
//
// These are independent endpoints of the same service with distinct default
// option sets; callers choose explicitly.
//
// Failed calls are classified into a closed set of error kinds (invalid
// request, not found, server error, unclassified status, transport failure)
// matchable with errors.Is against the package sentinels.
package xparser
