package protocol

// ProtocolVersion is the Infineon DFU SDK host protocol version implemented
// by this library.
const ProtocolVersion = "4.0"

// Frame structure constants per AN213924.
const (
	// StartOfPacket is the frame start marker (0x01)
	StartOfPacket = 0x01

	// EndOfPacket is the frame end marker (0x17)
	EndOfPacket = 0x17

	// MinFrameSize is the minimum frame size in bytes:
	// SOP(1) + CMD/STATUS(1) + LEN(2) + CHECKSUM(2) + EOP(1)
	MinFrameSize = 7

	// MaxPayloadSize is the largest payload the 16-bit length field can declare
	MaxPayloadSize = 0xFFFF
)

// Command codes per AN213924 (DFU host command set).
const (
	// CmdEnterDFU begins a DFU operation
	CmdEnterDFU = 0x38

	// CmdSyncDFU resets the DFU module to a known state (not acknowledged)
	CmdSyncDFU = 0x35

	// CmdExitDFU ends the DFU operation (not acknowledged)
	CmdExitDFU = 0x3B

	// CmdSendData transfers a block of data to the DFU module
	CmdSendData = 0x37

	// CmdSendDataWithoutResponse is CmdSendData with no response generated
	CmdSendDataWithoutResponse = 0x47

	// CmdProgramData writes data to one row of internal flash or NVM page
	CmdProgramData = 0x49

	// CmdVerifyData compares data to one row of internal flash or SMIF
	CmdVerifyData = 0x4A

	// CmdEraseData erases the contents of the specified row
	CmdEraseData = 0x44

	// CmdVerifyApplication reports whether an application's checksum is valid
	CmdVerifyApplication = 0x31

	// CmdSetApplicationMetadata sets a given application's metadata
	CmdSetApplicationMetadata = 0x4C

	// CmdGetMetadata reports selected metadata bytes
	CmdGetMetadata = 0x3C

	// CmdSetEIVector sets an encrypted initialization vector.
	// Defined by the protocol but not implemented by this host layer.
	CmdSetEIVector = 0x4D
)

// Status codes per AN213924. Any code outside this table is undefined.
const (
	// StatusSuccess indicates the command was successfully received and executed
	StatusSuccess = 0x00

	// StatusErrVerify indicates verification of flash contents failed
	StatusErrVerify = 0x02

	// StatusErrLength indicates the data amount is outside the expected range
	StatusErrLength = 0x03

	// StatusErrData indicates the data is not of the proper form
	StatusErrData = 0x04

	// StatusErrCommand indicates the command is not recognized
	StatusErrCommand = 0x05

	// StatusErrChecksum indicates the packet checksum does not match
	StatusErrChecksum = 0x08

	// StatusErrRow indicates the row number is not valid
	StatusErrRow = 0x0A

	// StatusErrRowAccess indicates the row is not accessible
	StatusErrRowAccess = 0x0B

	// StatusErrUnknown indicates an unknown DFU error occurred
	StatusErrUnknown = 0x0F
)

// Response data sizes per AN213924.
const (
	// EnterDFUResponseSize is the data size for the Enter DFU response:
	// JTAG_ID(4) + DEVICE_REV(1) + DFU_SDK_VERSION(4), packed with no padding
	EnterDFUResponseSize = 9

	// VerifyApplicationResponseSize is the data size for the
	// Verify Application response (1 byte, 1 = valid)
	VerifyApplicationResponseSize = 1
)
