package dfu

import (
	"fmt"
	"sync"
	"time"

	"github.com/moffa90/go-cydfu/protocol"
)

// state tracks the host's request lifecycle. The host allows a single
// outstanding request: while a reply is awaited, no new command may be
// issued.
type state int

const (
	stateIdle state = iota
	stateAwaitingReply
)

// Host sequences the DFU command set over a Transport. It owns the
// send-and-await-reply lifecycle, including MTU fragmentation of outgoing
// frames and the reply timeout. The host performs no retries; retry policy,
// if any, belongs to the caller.
type Host struct {
	transport Transport
	config    Config

	mu    sync.Mutex
	state state
}

// NewHost creates a Host over the given transport.
//
// Example:
//
//	transport := dfu.NewStreamTransport(conn)
//	host := dfu.NewHost(transport, dfu.WithResponseTimeout(2*time.Second))
func NewHost(transport Transport, opts ...Option) *Host {
	if transport == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Host{
		transport: transport,
		config:    cfg,
	}
}

// EnterDFU begins a DFU operation and returns device identification.
// The product ID must match the one the device firmware was built with.
func (h *Host) EnterDFU(productID uint32) (*protocol.DeviceInfo, error) {
	frame, err := protocol.BuildEnterDFUCmd(productID)
	if err != nil {
		return nil, err
	}

	data, err := h.roundTrip("enter DFU", frame, h.config.DataTimeout)
	if err != nil {
		return nil, err
	}

	return protocol.ParseEnterDFUResponse(data)
}

// SyncDFU resets the DFU module to a known state, making it ready to accept
// a new command. Fire-and-forget: the device sends no response.
func (h *Host) SyncDFU() error {
	frame, err := protocol.BuildSyncDFUCmd()
	if err != nil {
		return err
	}
	return h.send(frame)
}

// ExitDFU ends the DFU operation. Fire-and-forget: the device sends no
// response (it typically resets into the application).
func (h *Host) ExitDFU() error {
	frame, err := protocol.BuildExitDFUCmd()
	if err != nil {
		return err
	}
	return h.send(frame)
}

// SendData transfers a block of data to the DFU module and awaits the
// acknowledgement. The response carries no payload of interest.
func (h *Host) SendData(data []byte) error {
	frame, err := protocol.BuildSendDataCmd(data)
	if err != nil {
		return err
	}
	_, err = h.roundTrip("send data", frame, h.config.DataTimeout)
	return err
}

// SendDataWithoutResponse is SendData without an acknowledgement requested
// or expected. Fire-and-forget.
func (h *Host) SendDataWithoutResponse(data []byte) error {
	frame, err := protocol.BuildSendDataWithoutResponseCmd(data)
	if err != nil {
		return err
	}
	return h.send(frame)
}

// ProgramData writes data to one device row. The row checksum is the
// CRC-32C of the entire row, independent of transport chunking.
func (h *Host) ProgramData(rowAddr, rowChecksum uint32, data []byte) error {
	frame, err := protocol.BuildProgramDataCmd(rowAddr, rowChecksum, data)
	if err != nil {
		return err
	}
	_, err = h.roundTrip("program data", frame, h.config.DataTimeout)
	return err
}

// VerifyData compares data to one device row without writing.
func (h *Host) VerifyData(rowAddr, rowChecksum uint32, data []byte) error {
	frame, err := protocol.BuildVerifyDataCmd(rowAddr, rowChecksum, data)
	if err != nil {
		return err
	}
	_, err = h.roundTrip("verify data", frame, h.config.ResponseTimeout)
	return err
}

// EraseData erases the contents of the specified row.
func (h *Host) EraseData(rowAddr uint32) error {
	frame, err := protocol.BuildEraseDataCmd(rowAddr)
	if err != nil {
		return err
	}
	_, err = h.roundTrip("erase data", frame, h.config.ResponseTimeout)
	return err
}

// VerifyApplication reports the device's verdict on the application's
// checksum: 1 means valid, anything else means invalid. Interpretation is
// left to the caller.
func (h *Host) VerifyApplication(appNum byte) (byte, error) {
	frame, err := protocol.BuildVerifyApplicationCmd(appNum)
	if err != nil {
		return 0, err
	}

	data, err := h.roundTrip("verify application", frame, h.config.DataTimeout)
	if err != nil {
		return 0, err
	}

	return protocol.ParseVerifyApplicationResponse(data)
}

// SetApplicationMetadata sets the given application's metadata.
func (h *Host) SetApplicationMetadata(appNum byte, startAddr, length uint32) error {
	frame, err := protocol.BuildSetApplicationMetadataCmd(appNum, startAddr, length)
	if err != nil {
		return err
	}
	_, err = h.roundTrip("set application metadata", frame, h.config.DataTimeout)
	return err
}

// GetMetadata reports the raw metadata bytes in the given row offset range.
// The slice is caller-interpreted.
func (h *Host) GetMetadata(fromOffset, toOffset uint32) ([]byte, error) {
	frame, err := protocol.BuildGetMetadataCmd(fromOffset, toOffset)
	if err != nil {
		return nil, err
	}
	return h.roundTrip("get metadata", frame, h.config.ResponseTimeout)
}

// SetEIVector sets an encrypted initialization vector. The opcode is
// defined by the protocol but intentionally unimplemented at this layer:
// the call is a recognized no-op and never errors.
func (h *Host) SetEIVector(vector []byte) error {
	return nil
}

// send writes a fire-and-forget command. Idle -> Idle, no reply awaited.
func (h *Host) send(frame []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateIdle {
		return ErrBusy
	}

	return h.writeFragmented(frame)
}

// roundTrip writes a command and awaits exactly one reply within timeout.
// Idle -> AwaitingReply -> Idle; on any failure (codec, device status,
// timeout) the in-flight command is aborted and the host is Idle again.
func (h *Host) roundTrip(op string, frame []byte, timeout time.Duration) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != stateIdle {
		return nil, ErrBusy
	}

	// Discard a stale notification left behind by a previously timed-out
	// command so it cannot be taken for this command's reply.
	select {
	case <-h.transport.Notifications():
	default:
	}

	h.state = stateAwaitingReply
	defer func() { h.state = stateIdle }()

	if err := h.writeFragmented(frame); err != nil {
		return nil, fmt.Errorf("%s: write command: %w", op, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case raw, ok := <-h.transport.Notifications():
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, ErrTransportClosed)
		}
		status, data, err := protocol.ParseResponse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := protocol.InterpretStatus(op, status); err != nil {
			return nil, err
		}
		return data, nil
	case <-timer.C:
		return nil, &TimeoutError{Operation: op, Timeout: timeout}
	}
}

// writeFragmented writes a frame split into WriteChunkSize fragments, the
// transport's negotiated write-unit size. This is transport fragmentation,
// a finer granularity than the orchestrator's row chunking.
func (h *Host) writeFragmented(frame []byte) error {
	chunk := h.config.WriteChunkSize
	for len(frame) > 0 {
		n := chunk
		if n > len(frame) {
			n = len(frame)
		}
		if err := h.transport.Write(frame[:n]); err != nil {
			return err
		}
		frame = frame[n:]
	}
	return nil
}
