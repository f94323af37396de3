package protocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the integration client.
var (
	// ErrNotConnected indicates a command was issued without a live transport.
	ErrNotConnected = errors.New("not connected")

	// ErrClientClosed indicates the client was closed and can no longer connect.
	ErrClientClosed = errors.New("client closed")

	// ErrInvalidPort indicates a port outside 1-65535.
	ErrInvalidPort = errors.New("invalid port")
)

// ConnectionError wraps a transport failure with the operation that failed
// and the address of the bridge.
type ConnectionError struct {
	Op   string // "dial", "read", "write" or "close"
	Addr string // host:port of the bridge
	Err  error  // Underlying error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Op, e.Addr)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func newConnectionError(op, addr string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Addr: addr, Err: err}
}
