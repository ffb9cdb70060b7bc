package dfu

import (
	"time"

	"github.com/moffa90/go-cydfu/protocol"
)

// Defaults for the reference BLE deployment.
const (
	// DefaultResponseTimeout bounds the wait for quick query replies
	DefaultResponseTimeout = 1 * time.Second

	// DefaultDataTimeout bounds the wait for data-phase command replies
	// (enter, send data, program, set metadata, verify application)
	DefaultDataTimeout = 2 * time.Second

	// DefaultWriteChunkSize is the transport write-unit size: 20 bytes,
	// the default BLE ATT payload
	DefaultWriteChunkSize = 20

	// DefaultMaxDataLength is the row chunking granularity for Send Data
	DefaultMaxDataLength = 512
)

// Config holds host and updater configuration.
type Config struct {
	// ResponseTimeout bounds the reply wait for quick queries
	// (verify data, erase data, get metadata)
	ResponseTimeout time.Duration

	// DataTimeout bounds the reply wait for data-phase commands
	DataTimeout time.Duration

	// WriteChunkSize is the transport's negotiated write-unit size (MTU).
	// Outgoing frames are split into fragments of at most this size.
	WriteChunkSize int

	// MaxDataLength is the row chunking granularity: rows larger than this
	// are split across Send Data commands before the final Program Data.
	// Distinct from and coarser than WriteChunkSize.
	MaxDataLength int

	// ProgressCallback is called during update sessions to report progress
	// (optional)
	ProgressCallback ProgressCallback

	// Logger receives operational logging (optional)
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		ResponseTimeout: DefaultResponseTimeout,
		DataTimeout:     DefaultDataTimeout,
		WriteChunkSize:  DefaultWriteChunkSize,
		MaxDataLength:   DefaultMaxDataLength,
	}
}

// Option is a functional option for configuring a Host or Updater.
type Option func(*Config)

// WithResponseTimeout sets the reply timeout for quick query commands.
func WithResponseTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ResponseTimeout = timeout
		}
	}
}

// WithDataTimeout sets the reply timeout for data-phase commands.
func WithDataTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.DataTimeout = timeout
		}
	}
}

// WithTimeout sets both reply timeouts to the same value.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.ResponseTimeout = timeout
			c.DataTimeout = timeout
		}
	}
}

// WithWriteChunkSize sets the transport write-unit size for frame
// fragmentation. Values outside 1..MaxPayloadSize are ignored.
func WithWriteChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= protocol.MaxPayloadSize {
			c.WriteChunkSize = size
		}
	}
}

// WithMaxDataLength sets the row chunking granularity for Send Data.
// Values outside 1..MaxPayloadSize are ignored.
func WithMaxDataLength(length int) Option {
	return func(c *Config) {
		if length > 0 && length <= protocol.MaxPayloadSize {
			c.MaxDataLength = length
		}
	}
}

// WithProgressCallback sets a callback to track update progress.
//
// Example:
//
//	updater := dfu.NewUpdater(transport,
//	    dfu.WithProgressCallback(func(p dfu.Progress) {
//	        fmt.Printf("[%s] %.1f%%\n", p.Phase, p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for host and updater operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
