package dfu

import (
	"bufio"
	"encoding/binary"
	"io"
	"sync"

	"github.com/moffa90/go-cydfu/protocol"
)

// StreamTransport adapts a byte-stream device (serial port, TCP bridge,
// mock) to the Transport contract. A background reader reassembles reply
// frames from the stream and delivers each complete frame as one
// notification.
type StreamTransport struct {
	rw     io.ReadWriter
	notify chan []byte
	done   chan struct{}
	once   sync.Once
}

// NewStreamTransport wraps rw and starts the frame reassembly reader.
// Close stops the reader; the underlying stream is borrowed and is not
// closed by this transport.
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	t := &StreamTransport{
		rw:     rw,
		notify: make(chan []byte, 1),
		done:   make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// Write sends raw bytes to the underlying stream.
func (t *StreamTransport) Write(p []byte) error {
	_, err := t.rw.Write(p)
	return err
}

// Notifications yields reassembled reply frames.
func (t *StreamTransport) Notifications() <-chan []byte {
	return t.notify
}

// Close stops the reassembly reader. Idempotent.
func (t *StreamTransport) Close() error {
	t.once.Do(func() { close(t.done) })
	return nil
}

func (t *StreamTransport) readLoop() {
	defer close(t.notify)
	br := bufio.NewReader(t.rw)
	for {
		frame, err := readFrame(br)
		if err != nil {
			return
		}
		select {
		case t.notify <- frame:
		case <-t.done:
			return
		}
	}
}

// readFrame reads one complete reply frame from the stream. Bytes before
// the start-of-packet marker (link padding, HID report IDs) are discarded.
// The declared payload length determines how many bytes complete the frame.
func readFrame(br *bufio.Reader) ([]byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == protocol.StartOfPacket {
			break
		}
	}

	// STATUS + LEN after the marker, then payload + checksum + EOP.
	head := make([]byte, 3)
	if _, err := io.ReadFull(br, head); err != nil {
		return nil, err
	}
	dataLen := int(binary.LittleEndian.Uint16(head[1:3]))

	rest := make([]byte, dataLen+3)
	if _, err := io.ReadFull(br, rest); err != nil {
		return nil, err
	}

	frame := make([]byte, 0, protocol.MinFrameSize+dataLen)
	frame = append(frame, protocol.StartOfPacket)
	frame = append(frame, head...)
	frame = append(frame, rest...)
	return frame, nil
}
