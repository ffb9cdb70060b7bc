package dfu

import "time"

// Session phases reported through Progress.
const (
	PhaseEntering    = "entering"
	PhaseProgramming = "programming"
	PhaseVerifying   = "verifying"
	PhaseErasing     = "erasing"
	PhaseExiting     = "exiting"
	PhaseComplete    = "complete"
)

// Progress contains information about an update session's progress.
type Progress struct {
	// Phase is the current session phase (see the Phase constants)
	Phase string

	// CurrentRow is the number of rows handled so far
	CurrentRow int

	// TotalRows is the total number of rows in the image
	TotalRows int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// BytesWritten is the total number of row data bytes sent so far
	BytesWritten int

	// ElapsedTime is the time elapsed since the session started
	ElapsedTime time.Duration
}

// ProgressCallback is called during update sessions to report progress.
// Implementations should return quickly; the session blocks on the call.
type ProgressCallback func(Progress)

// Logger is an optional logging interface, allowing integration with any
// logging framework.
//
// Example binding to zerolog:
//
//	type zlog struct{ l zerolog.Logger }
//	func (z zlog) Debug(msg string, kv ...interface{}) { z.l.Debug().Fields(kv).Msg(msg) }
//	func (z zlog) Info(msg string, kv ...interface{})  { z.l.Info().Fields(kv).Msg(msg) }
//	func (z zlog) Error(msg string, kv ...interface{}) { z.l.Error().Fields(kv).Msg(msg) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
