package maestro

import (
	"errors"
	"fmt"

	"github.com/robotalks/maestro.go/pkg/maestro/protocol"
	"github.com/robotalks/maestro.go/pkg/maestro/units"
)

var (
	// ErrInvalidChannel indicates a channel outside the variant's range.
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrNotConnected indicates the session is not connected.
	ErrNotConnected = errors.New("not connected")
	// ErrUnsupportedOperation indicates the variant lacks the capability.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrValueOutOfRange indicates a value can't be encoded.
	ErrValueOutOfRange = units.ErrValueOutOfRange
	// ErrLimitViolation indicates a target outside configured limits.
	ErrLimitViolation = units.ErrLimitViolation
)

// ProtocolError reports a short or malformed reply.
type ProtocolError = protocol.ProtocolError

// TransportError wraps errors from the byte stream.
type TransportError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

// Unwrap returns the stream error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
