package protocol

// DeviceInfo contains device identification reported by the Enter DFU
// command response.
type DeviceInfo struct {
	// JtagID is the device JTAG ID (4 bytes)
	JtagID uint32

	// DeviceRev is the device revision (1 byte)
	DeviceRev byte

	// DFUSDKVersion is the DFU SDK version running on the device (4 bytes)
	DFUSDKVersion uint32
}
