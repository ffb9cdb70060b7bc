// Package protocol implements the Infineon DFU SDK host command/response
// protocol used by PSoC 6 class bootloaders (AN213924).
//
// # Protocol Overview
//
// The protocol uses a packet-based communication structure:
//
//	Command:  [SOP][CMD][LEN_L][LEN_H][PAYLOAD...][CHECKSUM_L][CHECKSUM_H][EOP]
//	Response: [SOP][STATUS][LEN_L][LEN_H][DATA...][CHECKSUM_L][CHECKSUM_H][EOP]
//
// Where:
//   - SOP = Start of Packet (0x01)
//   - EOP = End of Packet (0x17)
//   - LEN = 16-bit payload length (little-endian)
//   - CHECKSUM = 16-bit two's-complement sum (little-endian) of SOP through
//     the last payload byte inclusive
//
// # Command Builders
//
// Use the Build* functions to create command frames:
//
//	frame, err := protocol.BuildEnterDFUCmd(productID)
//	frame, err := protocol.BuildProgramDataCmd(rowAddr, crc, data)
//	// ... etc
//
// # Response Parsing
//
// ParseResponse validates frame integrity and extracts the status code and
// data; a structurally invalid frame yields *MalformedFrameError.
// InterpretStatus then maps the status code to an outcome:
//
//	status, data, err := protocol.ParseResponse(frame)
//	if err != nil {
//	    return err // corrupted or malformed frame
//	}
//	if err := protocol.InterpretStatus("program data", status); err != nil {
//	    return err // *ProtocolError or *UndefinedStatusError
//	}
//
// Status codes the table does not define map to *UndefinedStatusError, a
// reportable condition distinct from the eight documented error kinds.
package protocol
