package protocol

import (
	"encoding/binary"
	"fmt"
)

// ParseResponse extracts the status code and data payload from a response
// frame, validating the frame structure first.
//
// Response frame structure:
//
//	[SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// The checksum is recomputed over every byte of the frame except the
// trailing three (checksum + EOP) and must match the transmitted value
// exactly. A frame that fails any structural check yields a
// *MalformedFrameError and never a usable status or payload.
func ParseResponse(frame []byte) (statusCode byte, data []byte, err error) {
	if len(frame) < MinFrameSize {
		return 0, nil, &MalformedFrameError{
			Reason: fmt.Sprintf("frame too short: got %d bytes, minimum is %d", len(frame), MinFrameSize),
		}
	}

	if frame[0] != StartOfPacket {
		return 0, nil, &MalformedFrameError{
			Reason: fmt.Sprintf("invalid start of packet: got 0x%02X, expected 0x%02X", frame[0], StartOfPacket),
		}
	}

	if frame[len(frame)-1] != EndOfPacket {
		return 0, nil, &MalformedFrameError{
			Reason: fmt.Sprintf("invalid end of packet: got 0x%02X, expected 0x%02X", frame[len(frame)-1], EndOfPacket),
		}
	}

	dataLen := binary.LittleEndian.Uint16(frame[2:4])
	if expected := int(dataLen) + MinFrameSize; len(frame) != expected {
		return 0, nil, &MalformedFrameError{
			Reason: fmt.Sprintf("frame length mismatch: got %d bytes, declared length requires %d", len(frame), expected),
		}
	}

	transmitted := binary.LittleEndian.Uint16(frame[len(frame)-3 : len(frame)-1])
	computed := calculatePacketChecksum(frame[:len(frame)-3])
	if transmitted != computed {
		return 0, nil, &MalformedFrameError{
			Reason: fmt.Sprintf("checksum mismatch: computed 0x%04X, frame carries 0x%04X", computed, transmitted),
		}
	}

	if dataLen > 0 {
		data = frame[4 : 4+dataLen]
	}

	return frame[1], data, nil
}

// ParseEnterDFUResponse parses the Enter DFU command response payload.
//
// Data format (EnterDFUResponseSize bytes, no padding between fields):
//
//	[JTAG_ID(4, LE)][DEVICE_REV(1)][DFU_SDK_VERSION(4, LE)]
func ParseEnterDFUResponse(data []byte) (*DeviceInfo, error) {
	if len(data) != EnterDFUResponseSize {
		return nil, fmt.Errorf("invalid data length for Enter DFU response: got %d bytes, expected %d",
			len(data), EnterDFUResponseSize)
	}

	return &DeviceInfo{
		JtagID:        binary.LittleEndian.Uint32(data[0:4]),
		DeviceRev:     data[4],
		DFUSDKVersion: binary.LittleEndian.Uint32(data[5:9]),
	}, nil
}

// ParseVerifyApplicationResponse parses the Verify Application command
// response payload. The device reports 1 for a valid application; any other
// value means invalid and is left to the caller to interpret.
func ParseVerifyApplicationResponse(data []byte) (byte, error) {
	if len(data) != VerifyApplicationResponseSize {
		return 0, fmt.Errorf("invalid data length for Verify Application response: got %d bytes, expected %d",
			len(data), VerifyApplicationResponseSize)
	}

	return data[0], nil
}
