package dfu

import (
	"errors"
	"fmt"
	"time"
)

// ErrBusy indicates a command was issued while another command's reply was
// still outstanding. The host allows one outstanding request per session.
var ErrBusy = errors.New("a command is already awaiting its reply")

// ErrTransportClosed indicates the transport's notification channel closed
// while a reply was awaited.
var ErrTransportClosed = errors.New("transport notification channel closed")

// TimeoutError indicates no reply notification arrived within the deadline.
// After a timeout the host is Idle again; the late reply, if it ever
// arrives, is discarded before the next command.
type TimeoutError struct {
	// Operation is the command that timed out
	Operation string

	// Timeout is the deadline that elapsed
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: no reply within %s", e.Operation, e.Timeout)
}

// VerificationError indicates the device judged the application checksum
// invalid after programming.
type VerificationError struct {
	// AppID is the application that failed verification
	AppID byte

	// Result is the raw device verdict (1 would mean valid)
	Result byte
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("application %d failed verification (device verdict 0x%02X)", e.AppID, e.Result)
}
