package protocol

import (
	"errors"
	"testing"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		code byte
		want StatusKind
	}{
		{StatusSuccess, StatusKindOk},
		{StatusErrVerify, StatusKindVerify},
		{StatusErrLength, StatusKindLength},
		{StatusErrData, StatusKindData},
		{StatusErrCommand, StatusKindCommand},
		{StatusErrChecksum, StatusKindChecksum},
		{StatusErrRow, StatusKindRow},
		{StatusErrRowAccess, StatusKindRowAccess},
		{StatusErrUnknown, StatusKindUnknown},
		// Codes the table does not define.
		{0x01, StatusKindUndefined},
		{0x06, StatusKindUndefined},
		{0x07, StatusKindUndefined},
		{0x09, StatusKindUndefined},
		{0x0C, StatusKindUndefined},
		{0x10, StatusKindUndefined},
		{0xFF, StatusKindUndefined},
	}

	for _, tt := range tests {
		if got := KindForStatus(tt.code); got != tt.want {
			t.Errorf("KindForStatus(0x%02X) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestInterpretStatusSuccess(t *testing.T) {
	if err := InterpretStatus("enter DFU", StatusSuccess); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInterpretStatusKnownError(t *testing.T) {
	err := InterpretStatus("program data", StatusErrRow)

	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProtocolError", err)
	}
	if pe.Kind != StatusKindRow {
		t.Errorf("Kind = %v, want StatusKindRow", pe.Kind)
	}
	if pe.StatusCode != StatusErrRow {
		t.Errorf("StatusCode = 0x%02X, want 0x%02X", pe.StatusCode, StatusErrRow)
	}
	if pe.Operation != "program data" {
		t.Errorf("Operation = %q, want %q", pe.Operation, "program data")
	}
	if !IsProtocolError(err) {
		t.Error("IsProtocolError = false, want true")
	}
}

// A device answering with an out-of-spec code is a distinct condition from
// a device reporting a known error.
func TestInterpretStatusUndefinedCode(t *testing.T) {
	err := InterpretStatus("erase data", 0x42)

	var undef *UndefinedStatusError
	if !errors.As(err, &undef) {
		t.Fatalf("error = %v, want *UndefinedStatusError", err)
	}
	if undef.StatusCode != 0x42 {
		t.Errorf("StatusCode = 0x%02X, want 0x42", undef.StatusCode)
	}
	if IsProtocolError(err) {
		t.Error("IsProtocolError = true for undefined code, want false")
	}
}

func TestStatusKindString(t *testing.T) {
	kinds := []StatusKind{
		StatusKindOk, StatusKindVerify, StatusKindLength, StatusKindData,
		StatusKindCommand, StatusKindChecksum, StatusKindRow,
		StatusKindRowAccess, StatusKindUnknown, StatusKindUndefined,
	}
	for _, k := range kinds {
		if s := k.String(); s == "" {
			t.Errorf("StatusKind(%d).String() is empty", int(k))
		}
	}
}
