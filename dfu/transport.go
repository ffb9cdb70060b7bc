package dfu

// Transport is the borrowed connection to the DFU device. The host never
// initiates discovery or connection setup; the caller establishes the link
// and hands the transport in for the lifetime of the session.
//
// Write sends raw bytes in one physical write. Splitting frames into
// MTU-sized fragments is the host's responsibility, not the transport's.
//
// Notifications delivers the raw bytes of exactly one reply frame per
// outstanding request, sourced from the device's reply channel. The host
// awaits the channel with a timeout; the transport must not deliver partial
// frames.
type Transport interface {
	Write(p []byte) error
	Notifications() <-chan []byte
}
