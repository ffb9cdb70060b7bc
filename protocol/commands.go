package protocol

import (
	"encoding/binary"
)

// BuildCommandPacket frames a command and its payload for transmission.
//
// Frame structure:
//
//	[SOP][CMD][LEN_L][LEN_H][PAYLOAD...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// The checksum covers SOP through the last payload byte inclusive.
// Returns ErrPayloadTooLarge if the payload does not fit the 16-bit
// length field. The returned slice is freshly allocated; callers own it.
func BuildCommandPacket(cmd byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}

	frame := make([]byte, 0, MinFrameSize+len(payload))
	frame = append(frame, StartOfPacket, cmd)
	frame = binary.LittleEndian.AppendUint16(frame, uint16(len(payload)))
	frame = append(frame, payload...)
	frame = binary.LittleEndian.AppendUint16(frame, calculatePacketChecksum(frame))
	frame = append(frame, EndOfPacket)

	return frame, nil
}

// BuildEnterDFUCmd constructs an Enter DFU command frame.
// The product ID is encoded little-endian in the 4-byte payload.
func BuildEnterDFUCmd(productID uint32) ([]byte, error) {
	payload := binary.LittleEndian.AppendUint32(nil, productID)
	return BuildCommandPacket(CmdEnterDFU, payload)
}

// BuildSyncDFUCmd constructs a Sync DFU command frame.
// The device does not acknowledge this command.
func BuildSyncDFUCmd() ([]byte, error) {
	return BuildCommandPacket(CmdSyncDFU, nil)
}

// BuildExitDFUCmd constructs an Exit DFU command frame.
// The device does not acknowledge this command.
func BuildExitDFUCmd() ([]byte, error) {
	return BuildCommandPacket(CmdExitDFU, nil)
}

// BuildSendDataCmd constructs a Send Data command frame.
// The data is buffered by the DFU module for a later Program Data or
// Verify Data command.
func BuildSendDataCmd(data []byte) ([]byte, error) {
	return BuildCommandPacket(CmdSendData, data)
}

// BuildSendDataWithoutResponseCmd constructs a Send Data Without Response
// command frame. Identical payload to Send Data, but the device generates
// no response.
func BuildSendDataWithoutResponseCmd(data []byte) ([]byte, error) {
	return BuildCommandPacket(CmdSendDataWithoutResponse, data)
}

// BuildProgramDataCmd constructs a Program Data command frame.
//
// Payload structure:
//
//	[ROW_ADDR(4, LE)][ROW_CHECKSUM(4, LE)][DATA...]
//
// The row checksum is the CRC-32C of the entire row's data, independent of
// how the row was chunked for transport.
func BuildProgramDataCmd(rowAddr, rowChecksum uint32, data []byte) ([]byte, error) {
	return BuildCommandPacket(CmdProgramData, rowPayload(rowAddr, rowChecksum, data))
}

// BuildVerifyDataCmd constructs a Verify Data command frame.
// Same payload shape as Program Data, but the device only compares.
func BuildVerifyDataCmd(rowAddr, rowChecksum uint32, data []byte) ([]byte, error) {
	return BuildCommandPacket(CmdVerifyData, rowPayload(rowAddr, rowChecksum, data))
}

// BuildEraseDataCmd constructs an Erase Data command frame for one row.
func BuildEraseDataCmd(rowAddr uint32) ([]byte, error) {
	payload := binary.LittleEndian.AppendUint32(nil, rowAddr)
	return BuildCommandPacket(CmdEraseData, payload)
}

// BuildVerifyApplicationCmd constructs a Verify Application command frame.
func BuildVerifyApplicationCmd(appNum byte) ([]byte, error) {
	return BuildCommandPacket(CmdVerifyApplication, []byte{appNum})
}

// BuildSetApplicationMetadataCmd constructs a Set Application Metadata
// command frame.
//
// Payload structure:
//
//	[APP_NUM(1)][START_ADDR(4, LE)][LENGTH(4, LE)]
func BuildSetApplicationMetadataCmd(appNum byte, startAddr, length uint32) ([]byte, error) {
	payload := make([]byte, 0, 9)
	payload = append(payload, appNum)
	payload = binary.LittleEndian.AppendUint32(payload, startAddr)
	payload = binary.LittleEndian.AppendUint32(payload, length)
	return BuildCommandPacket(CmdSetApplicationMetadata, payload)
}

// BuildGetMetadataCmd constructs a Get Metadata command frame requesting the
// metadata bytes in the half-open row offset range [from, to).
func BuildGetMetadataCmd(fromOffset, toOffset uint32) ([]byte, error) {
	payload := make([]byte, 0, 8)
	payload = binary.LittleEndian.AppendUint32(payload, fromOffset)
	payload = binary.LittleEndian.AppendUint32(payload, toOffset)
	return BuildCommandPacket(CmdGetMetadata, payload)
}

// rowPayload assembles the shared Program Data / Verify Data payload.
func rowPayload(rowAddr, rowChecksum uint32, data []byte) []byte {
	payload := make([]byte, 0, 8+len(data))
	payload = binary.LittleEndian.AppendUint32(payload, rowAddr)
	payload = binary.LittleEndian.AppendUint32(payload, rowChecksum)
	payload = append(payload, data...)
	return payload
}
