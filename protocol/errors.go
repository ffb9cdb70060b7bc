package protocol

import (
	"errors"
	"fmt"
)

// ErrPayloadTooLarge reports a payload that does not fit the 16-bit frame
// length field and therefore cannot be encoded.
var ErrPayloadTooLarge = errors.New("payload exceeds 16-bit frame length field")

// MalformedFrameError reports a response frame that failed structural
// validation: bad markers, declared-length mismatch, or checksum mismatch.
type MalformedFrameError struct {
	Reason string
}

func (e *MalformedFrameError) Error() string {
	return "malformed response frame: " + e.Reason
}

// ProtocolError represents an error status reported by the device for a
// command. The status code is one of the eight documented error codes.
type ProtocolError struct {
	// Operation is the command that failed
	Operation string

	// StatusCode is the raw status code from the device response
	StatusCode byte

	// Kind is the semantic classification of StatusCode
	Kind StatusKind
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s failed: %s (0x%02X)", e.Operation, e.Kind, e.StatusCode)
}

// IsProtocolError returns true if the error is a *ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// UndefinedStatusError reports a status code outside the documented table.
// This is distinct from ProtocolError: the device answered, but with a code
// this protocol version does not define.
type UndefinedStatusError struct {
	// Operation is the command that received the undefined code
	Operation string

	// StatusCode is the out-of-table status code
	StatusCode byte
}

func (e *UndefinedStatusError) Error() string {
	return fmt.Sprintf("%s: device responded with undefined status code 0x%02X", e.Operation, e.StatusCode)
}
