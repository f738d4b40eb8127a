package albumapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyID is returned by FetchAlbumByID when called without an id.
var ErrEmptyID = errors.New("album id is empty")

// ErrInvalidID is returned by FetchAlbumByID for "." or "..", which would
// address a different resource once the URL path is resolved.
var ErrInvalidID = errors.New("album id is not a valid path segment")

// FetchError wraps any failure of a remote read.
type FetchError struct {
	Op  string
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TransportError means the request could not be sent or its response could
// not be received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("execute request: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("api returned status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// DecodeError means the response body did not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorKind is a coarse classification of fetch failures, used for logging.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransport
	KindStatus
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "http_status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Classify reports which kind of failure err carries.
func Classify(err error) ErrorKind {
	var (
		transport *TransportError
		status    *HTTPStatusError
		decode    *DecodeError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &status):
		return KindStatus
	case errors.As(err, &decode):
		return KindDecode
	case errors.As(err, &transport):
		return KindTransport
	default:
		return KindUnknown
	}
}
