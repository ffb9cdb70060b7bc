package cyacd2

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// One valid image: header, @APPINFO, two data rows.
//
// Header bytes: fileVersion=0x01, siliconID=0x000B07E2 (LE), rev=0x12,
// checksumType=0x00, appID=0x01, productID=0x07654321 (LE).
const (
	testHeader  = "01e2070b0012000121436507"
	testAppInfo = "@APPINFO:0x10000000,0x100"
	testRow1    = ":0010000008AB"
	testRow2    = ":0012000001020304"
)

func validImage() string {
	return strings.Join([]string{testHeader, testAppInfo, testRow1, testRow2}, "\n") + "\n"
}

func TestOpenReaderParsesMetadata(t *testing.T) {
	app, err := OpenReader(strings.NewReader(validImage()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if app.FileVersion != 0x01 {
		t.Errorf("FileVersion = 0x%02X, want 0x01", app.FileVersion)
	}
	if app.SiliconID != 0x000B07E2 {
		t.Errorf("SiliconID = 0x%08X, want 0x000B07E2", app.SiliconID)
	}
	if app.SiliconRevision != 0x12 {
		t.Errorf("SiliconRevision = 0x%02X, want 0x12", app.SiliconRevision)
	}
	if app.ChecksumType != 0x00 {
		t.Errorf("ChecksumType = 0x%02X, want 0x00", app.ChecksumType)
	}
	if app.AppID != 0x01 {
		t.Errorf("AppID = %d, want 1", app.AppID)
	}
	if app.ProductID != 0x07654321 {
		t.Errorf("ProductID = 0x%08X, want 0x07654321", app.ProductID)
	}
	if app.StartAddr != 0x10000000 {
		t.Errorf("StartAddr = 0x%08X, want 0x10000000", app.StartAddr)
	}
	if app.Length != 0x100 {
		t.Errorf("Length = %d, want 256", app.Length)
	}
	if app.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", app.NumRows())
	}
	if app.CurrentRow() != 0 {
		t.Errorf("CurrentRow = %d, want 0", app.CurrentRow())
	}
}

func TestOpenRequiresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.cyacd")
	if err := os.WriteFile(path, []byte(validImage()), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	var fileType *InvalidFileTypeError
	if !errors.As(err, &fileType) {
		t.Fatalf("error = %v, want *InvalidFileTypeError", err)
	}
}

func TestOpenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "firmware.cyacd2")
	if err := os.WriteFile(path, []byte(validImage()), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer app.Close()

	if app.NumRows() != 2 {
		t.Errorf("NumRows = %d, want 2", app.NumRows())
	}
}

func TestOpenReaderRejectsMalformedMetadata(t *testing.T) {
	tests := []struct {
		name  string
		image string
	}{
		{
			name:  "empty file",
			image: "",
		},
		{
			name:  "header decodes to 11 bytes",
			image: "01e2070b00120001214365\n" + testAppInfo + "\n" + testRow1 + "\n",
		},
		{
			name:  "header decodes to 13 bytes",
			image: "01e2070b0012000121436507ff\n" + testAppInfo + "\n" + testRow1 + "\n",
		},
		{
			name:  "header is not hex",
			image: "zz" + testHeader[2:] + "\n" + testAppInfo + "\n",
		},
		{
			name:  "missing application info line",
			image: testHeader + "\n",
		},
		{
			name:  "wrong application info label",
			image: testHeader + "\n@APPDATA:0x10000000,0x100\n" + testRow1 + "\n",
		},
		{
			name:  "application info missing length",
			image: testHeader + "\n@APPINFO:0x10000000\n" + testRow1 + "\n",
		},
		{
			name:  "application info start address not numeric",
			image: testHeader + "\n@APPINFO:xyz,0x100\n" + testRow1 + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenReader(strings.NewReader(tt.image))
			var invalid *InvalidApplicationFileError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidApplicationFileError", err)
			}
		})
	}
}

// Rows come back in file order, addresses little-endian from the first four
// bytes, and end-of-data is io.EOF, not a failure.
func TestRowSequencing(t *testing.T) {
	app, err := OpenReader(strings.NewReader(validImage()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		address uint32
		data    []byte
	}{
		{0x00001000, []byte{0x08, 0xAB}},
		{0x00001200, []byte{0x01, 0x02, 0x03, 0x04}},
	}

	for i, w := range want {
		row, err := app.NextRow()
		if err != nil {
			t.Fatalf("row %d: unexpected error: %v", i, err)
		}
		if row.Address != w.address {
			t.Errorf("row %d: address = 0x%08X, want 0x%08X", i, row.Address, w.address)
		}
		if !bytes.Equal(row.Data, w.data) {
			t.Errorf("row %d: data = % 02X, want % 02X", i, row.Data, w.data)
		}
		if app.CurrentRow() != i+1 {
			t.Errorf("row %d: CurrentRow = %d, want %d", i, app.CurrentRow(), i+1)
		}
	}

	if _, err := app.NextRow(); err != io.EOF {
		t.Fatalf("after last row: err = %v, want io.EOF", err)
	}
}

func TestNextRowRejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "missing row marker", row: "0010000008AB"},
		{name: "row is not hex", row: ":00100000zz"},
		{name: "row shorter than an address", row: ":001000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image := testHeader + "\n" + testAppInfo + "\n" + tt.row + "\n"
			app, err := OpenReader(strings.NewReader(image))
			if err != nil {
				t.Fatalf("unexpected open error: %v", err)
			}

			_, err = app.NextRow()
			var invalid *InvalidApplicationFileError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want *InvalidApplicationFileError", err)
			}
			if app.CurrentRow() != 0 {
				t.Errorf("CurrentRow advanced to %d after failed read", app.CurrentRow())
			}
		})
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	app, err := OpenReader(strings.NewReader(validImage()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := app.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := app.NextRow(); err != io.EOF {
		t.Errorf("NextRow after close: err = %v, want io.EOF", err)
	}
}

func TestAppInfoDecimalLiterals(t *testing.T) {
	image := testHeader + "\n@APPINFO:268435456,512\n" + testRow1 + "\n"
	app, err := OpenReader(strings.NewReader(image))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.StartAddr != 268435456 {
		t.Errorf("StartAddr = %d, want 268435456", app.StartAddr)
	}
	if app.Length != 512 {
		t.Errorf("Length = %d, want 512", app.Length)
	}
}
