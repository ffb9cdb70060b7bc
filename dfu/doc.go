// Package dfu sequences firmware update sessions over a notification-based
// transport.
//
// # Overview
//
// Host is the protocol engine: it frames commands via the protocol package,
// writes them to the transport in MTU-sized fragments, and awaits exactly
// one reply per command within a timeout. Sync DFU, Exit DFU and Send Data
// Without Response are fire-and-forget and never await a reply.
//
// Updater orchestrates the end-to-end flash sequence on top of a Host:
// enter DFU, set application metadata, stream every image row (CRC-32C over
// the whole row, Send Data chunks plus a final Program Data), verify the
// application, exit DFU.
//
// # Basic Usage
//
//	conn, err := net.Dial("tcp", bridgeAddr) // or a serial port
//	if err != nil {
//	    log.Fatal(err)
//	}
//	transport := dfu.NewStreamTransport(conn)
//	defer transport.Close()
//
//	app, err := cyacd2.Open("firmware.cyacd2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	updater := dfu.NewUpdater(transport)
//	if err := updater.Update(context.Background(), app); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// A session is a single logical flow of control: one outstanding request at
// a time, enforced by the host. Cancellation is not supported mid-command;
// the context passed to Update is checked between commands, and an in-flight
// command always completes or times out first.
//
// # Error Handling
//
// The session aborts on the first unrecovered error: *TimeoutError,
// protocol.*MalformedFrameError, protocol.*ProtocolError,
// protocol.*UndefinedStatusError, or *VerificationError. No retries and no
// rollback are attempted; the device remains in whatever state the last
// acknowledged command left it.
//
// # Transport Independence
//
// The package does not implement device discovery or connection setup.
// Callers hand in a Transport; StreamTransport adapts any io.ReadWriter
// (serial port, TCP bridge, mock) to the contract.
package dfu
