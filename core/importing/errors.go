package importing

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat aborts a batch before any record is produced.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// MalformedInputError aborts a batch: the payload could not be parsed as the
// hinted format.
type MalformedInputError struct {
	Format Format
	Err    error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed %s input: %v", e.Format, e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

type ConnectorErrorKind int

const (
	// ConnectorAuth: bad credential or institution id; aborts the fetch.
	ConnectorAuth ConnectorErrorKind = iota
	// ConnectorUnavailable: network failure or timeout; retryable by the caller.
	ConnectorUnavailable
	// ConnectorProtocol: unexpected response shape; not retryable.
	ConnectorProtocol
)

func (k ConnectorErrorKind) String() string {
	switch k {
	case ConnectorAuth:
		return "auth"
	case ConnectorUnavailable:
		return "unavailable"
	case ConnectorProtocol:
		return "protocol"
	}
	return "unknown"
}

// ConnectorError reports a failed provider call. Scope carries the failing
// device/course/location id for multi-scope fetches.
type ConnectorError struct {
	Kind  ConnectorErrorKind
	Scope string
	Err   error
}

func (e *ConnectorError) Error() string {
	if e.Scope != "" {
		return fmt.Sprintf("connector %s error (scope %s): %v", e.Kind, e.Scope, e.Err)
	}
	return fmt.Sprintf("connector %s error: %v", e.Kind, e.Err)
}

func (e *ConnectorError) Unwrap() error { return e.Err }

func (e *ConnectorError) Retryable() bool { return e.Kind == ConnectorUnavailable }

// ScopeFailure records a remote scope that failed while the rest of the fetch
// carried on.
type ScopeFailure struct {
	Scope string `json:"scope" bson:"scope"`
	Error string `json:"error" bson:"error"`
}
