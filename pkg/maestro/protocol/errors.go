package protocol

import (
	"errors"
	"fmt"
)

// ErrValueOutOfRange indicates a value doesn't fit the argument encoding.
var ErrValueOutOfRange = errors.New("value out of range")

// ProtocolError reports a reply shorter than the opcode requires, or a
// Malformed reply with a byte at Index outside 7 bits.
type ProtocolError struct {
	Op       Opcode
	Expected int
	Received int

	Malformed bool
	Index     int
	Byte      byte
}

// Error implements error.
func (e *ProtocolError) Error() string {
	if e.Malformed {
		return fmt.Sprintf("%s: malformed reply byte %#02x at %d", e.Op, e.Byte, e.Index)
	}
	return fmt.Sprintf("%s: expect %d reply bytes, received %d", e.Op, e.Expected, e.Received)
}

func rangeError(v, max int) error {
	return fmt.Errorf("%w: %d not in [0, %d]", ErrValueOutOfRange, v, max)
}
