package xparser

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest indicates the service rejected the request body
	// or options (HTTP 400).
	ErrInvalidRequest = errors.New("invalid parse request")

	// ErrNotFound indicates the referenced document does not exist at
	// the given location (HTTP 404).
	ErrNotFound = errors.New("document not found")

	// ErrServer indicates a remote processing failure (HTTP 500).
	ErrServer = errors.New("parser server error")

	// ErrUnexpectedStatus indicates a non-2xx status outside the
	// classified set.
	ErrUnexpectedStatus = errors.New("unexpected parser status")

	// ErrTransport indicates a connection, timeout, DNS, or response
	// decoding failure.
	ErrTransport = errors.New("parser transport failure")

	// ErrConfigRequired is returned when a client configuration is not provided.
	ErrConfigRequired = errors.New("client configuration required")

	// ErrClientClosed is returned when an operation is attempted on a
	// closed client.
	ErrClientClosed = errors.New("client is closed")
)

// Kind identifies the failure category of an Error.
type Kind int

const (
	// KindInvalidRequest corresponds to HTTP 400.
	KindInvalidRequest Kind = iota + 1
	// KindNotFound corresponds to HTTP 404.
	KindNotFound
	// KindServerError corresponds to HTTP 500.
	KindServerError
	// KindUnclassified corresponds to any other non-2xx status.
	KindUnclassified
	// KindTransport corresponds to transport-level failures.
	KindTransport
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindServerError:
		return "server_error"
	case KindUnclassified:
		return "unclassified"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is a classified X-Parser call failure. It preserves the original
// HTTP status and response body, or the underlying transport cause.
type Error struct {
	Kind       Kind
	StatusCode int    // zero for transport failures
	Body       string // response body text, preserved verbatim
	cause      error  // underlying error for transport failures
}

func (e *Error) Error() string {
	if e.Kind == KindTransport {
		return fmt.Sprintf("x-parser: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("x-parser: %s (status %d): %s", e.Kind, e.StatusCode, e.Body)
}

// Unwrap returns the underlying transport cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the error matches one of the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.Kind == KindInvalidRequest
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServer:
		return e.Kind == KindServerError
	case ErrUnexpectedStatus:
		return e.Kind == KindUnclassified
	case ErrTransport:
		return e.Kind == KindTransport
	default:
		return false
	}
}

// classifyStatus maps a non-2xx HTTP status to a classified error.
// The response body is preserved on every kind.
func classifyStatus(status int, body string) *Error {
	var kind Kind
	switch status {
	case 400:
		kind = KindInvalidRequest
	case 404:
		kind = KindNotFound
	case 500:
		kind = KindServerError
	default:
		kind = KindUnclassified
	}
	return &Error{Kind: kind, StatusCode: status, Body: body}
}

// transportError wraps a connection, timeout, or decode failure.
func transportError(err error) *Error {
	return &Error{Kind: KindTransport, cause: err}
}
