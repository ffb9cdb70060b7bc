package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// buildTestResponse frames a response the way the device would.
func buildTestResponse(t *testing.T, statusCode byte, data []byte) []byte {
	t.Helper()
	frame, err := BuildCommandPacket(statusCode, data)
	if err != nil {
		t.Fatalf("build test response: %v", err)
	}
	return frame
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name           string
		frame          func(t *testing.T) []byte
		wantStatusCode byte
		wantData       []byte
		errMsg         string
	}{
		{
			name:           "valid response with no data",
			frame:          func(t *testing.T) []byte { return buildTestResponse(t, StatusSuccess, nil) },
			wantStatusCode: StatusSuccess,
		},
		{
			name:           "valid response with data",
			frame:          func(t *testing.T) []byte { return buildTestResponse(t, StatusSuccess, []byte{0x01, 0x02, 0x03}) },
			wantStatusCode: StatusSuccess,
			wantData:       []byte{0x01, 0x02, 0x03},
		},
		{
			name:           "error status code is not a frame error",
			frame:          func(t *testing.T) []byte { return buildTestResponse(t, StatusErrChecksum, nil) },
			wantStatusCode: StatusErrChecksum,
		},
		{
			name:   "frame too short",
			frame:  func(t *testing.T) []byte { return []byte{0x01, 0x00} },
			errMsg: "frame too short",
		},
		{
			name:   "invalid start of packet",
			frame:  func(t *testing.T) []byte { return []byte{0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x17} },
			errMsg: "invalid start of packet",
		},
		{
			name:   "invalid end of packet",
			frame:  func(t *testing.T) []byte { return []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF} },
			errMsg: "invalid end of packet",
		},
		{
			name: "declared length does not match buffer",
			frame: func(t *testing.T) []byte {
				frame := buildTestResponse(t, StatusSuccess, []byte{0x01, 0x02})
				frame[2] = 0x05 // declare more payload than present
				return frame
			},
			errMsg: "length mismatch",
		},
		{
			name: "checksum mismatch",
			frame: func(t *testing.T) []byte {
				frame := buildTestResponse(t, StatusSuccess, []byte{0x01, 0x02})
				frame[4] ^= 0x01 // corrupt payload, checksum left intact
				return frame
			},
			errMsg: "checksum mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusCode, data, err := ParseResponse(tt.frame(t))

			if tt.errMsg != "" {
				var malformed *MalformedFrameError
				if !errors.As(err, &malformed) {
					t.Fatalf("error = %v, want *MalformedFrameError", err)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if statusCode != tt.wantStatusCode {
				t.Errorf("statusCode = 0x%02X, want 0x%02X", statusCode, tt.wantStatusCode)
			}
			if !bytes.Equal(data, tt.wantData) {
				t.Errorf("data = % 02X, want % 02X", data, tt.wantData)
			}
		})
	}
}

// Flipping any single byte other than the trailing checksum+EOP group must
// make decoding fail. The additive checksum catches every single-byte
// corruption deterministically.
func TestParseResponseDetectsSingleByteCorruption(t *testing.T) {
	frame := buildTestResponse(t, StatusSuccess, []byte{0x11, 0x22, 0x33, 0x44})

	for i := 0; i < len(frame)-3; i++ {
		corrupted := append([]byte{}, frame...)
		corrupted[i] ^= 0xFF

		_, _, err := ParseResponse(corrupted)
		var malformed *MalformedFrameError
		if !errors.As(err, &malformed) {
			t.Errorf("flipping byte %d: error = %v, want *MalformedFrameError", i, err)
		}
	}
}

func TestParseEnterDFUResponse(t *testing.T) {
	data := []byte{
		0x77, 0x24, 0xA0, 0x6B, // JTAG ID (little-endian)
		0x01,                   // device revision
		0x03, 0x02, 0x01, 0x00, // DFU SDK version (little-endian)
	}

	info, err := ParseEnterDFUResponse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.JtagID != 0x6BA02477 {
		t.Errorf("JtagID = 0x%08X, want 0x6BA02477", info.JtagID)
	}
	if info.DeviceRev != 0x01 {
		t.Errorf("DeviceRev = 0x%02X, want 0x01", info.DeviceRev)
	}
	if info.DFUSDKVersion != 0x00010203 {
		t.Errorf("DFUSDKVersion = 0x%08X, want 0x00010203", info.DFUSDKVersion)
	}
}

func TestParseEnterDFUResponseWrongSize(t *testing.T) {
	for _, size := range []int{0, 5, 8, 10} {
		if _, err := ParseEnterDFUResponse(make([]byte, size)); err == nil {
			t.Errorf("size %d: expected error, got nil", size)
		}
	}
}

func TestParseVerifyApplicationResponse(t *testing.T) {
	result, err := ParseVerifyApplicationResponse([]byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 1 {
		t.Errorf("result = %d, want 1", result)
	}

	if _, err := ParseVerifyApplicationResponse(nil); err == nil {
		t.Error("expected error for empty data, got nil")
	}
	if _, err := ParseVerifyApplicationResponse([]byte{0x01, 0x02}); err == nil {
		t.Error("expected error for oversized data, got nil")
	}
}
