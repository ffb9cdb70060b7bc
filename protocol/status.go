package protocol

import "fmt"

// StatusKind is the semantic outcome derived from a one-byte status code.
// StatusKindUndefined marks a code outside the documented table; callers
// must not conflate it with a device-reported known error.
type StatusKind int

const (
	StatusKindOk StatusKind = iota
	StatusKindVerify
	StatusKindLength
	StatusKindData
	StatusKindCommand
	StatusKindChecksum
	StatusKindRow
	StatusKindRowAccess
	StatusKindUnknown
	StatusKindUndefined
)

// String returns a human-readable name for the status kind.
func (k StatusKind) String() string {
	switch k {
	case StatusKindOk:
		return "success"
	case StatusKindVerify:
		return "verification failed"
	case StatusKindLength:
		return "invalid length"
	case StatusKindData:
		return "invalid data"
	case StatusKindCommand:
		return "unrecognized command"
	case StatusKindChecksum:
		return "checksum mismatch"
	case StatusKindRow:
		return "invalid row"
	case StatusKindRowAccess:
		return "row not accessible"
	case StatusKindUnknown:
		return "unknown DFU error"
	case StatusKindUndefined:
		return "undefined status code"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// KindForStatus maps a wire status code to its semantic kind.
// Codes outside the documented table map to StatusKindUndefined.
func KindForStatus(code byte) StatusKind {
	switch code {
	case StatusSuccess:
		return StatusKindOk
	case StatusErrVerify:
		return StatusKindVerify
	case StatusErrLength:
		return StatusKindLength
	case StatusErrData:
		return StatusKindData
	case StatusErrCommand:
		return StatusKindCommand
	case StatusErrChecksum:
		return StatusKindChecksum
	case StatusErrRow:
		return StatusKindRow
	case StatusErrRowAccess:
		return StatusKindRowAccess
	case StatusErrUnknown:
		return StatusKindUnknown
	default:
		return StatusKindUndefined
	}
}

// InterpretStatus converts a response status code into an outcome: nil for
// StatusSuccess, a *ProtocolError for the eight documented error codes, and
// a *UndefinedStatusError for anything outside the table. The operation name
// is carried into the error for context.
func InterpretStatus(operation string, code byte) error {
	kind := KindForStatus(code)
	switch kind {
	case StatusKindOk:
		return nil
	case StatusKindUndefined:
		return &UndefinedStatusError{Operation: operation, StatusCode: code}
	default:
		return &ProtocolError{Operation: operation, StatusCode: code, Kind: kind}
	}
}
