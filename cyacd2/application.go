package cyacd2

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Constants for the cyacd2 container format.
const (
	// FileExtension is the required extension for application image files
	FileExtension = ".cyacd2"

	// HeaderSize is the exact size of the hex-decoded header line in bytes
	HeaderSize = 12

	// RowAddressSize is the size of the address prefix on each data row
	RowAddressSize = 4

	// appInfoMarker is the required label token of the application info line
	appInfoMarker = "@APPINFO"

	// rowMarker is the required first character of every data row line
	rowMarker = ':'
)

// Row is one (address, data) unit from the application image, in file order.
// Ownership of Data transfers to the caller on each read.
type Row struct {
	// Address is the flash row address
	Address uint32

	// Data is the row data to be programmed
	Data []byte
}

// Application is a parsed cyacd2 application image.
//
// Header and application info metadata are decoded at open time; data rows
// are consumed strictly sequentially through NextRow. There is no random
// access and no rewind: to restart, reopen the image.
type Application struct {
	// FileVersion is the container file format version
	FileVersion byte

	// SiliconID is the target silicon ID
	SiliconID uint32

	// SiliconRevision is the target silicon revision
	SiliconRevision byte

	// ChecksumType is the application checksum algorithm identifier
	ChecksumType byte

	// AppID is the application number this image targets
	AppID byte

	// ProductID is the product identifier checked by Enter DFU
	ProductID uint32

	// StartAddr is the application start address from the @APPINFO line
	StartAddr uint32

	// Length is the application length in bytes from the @APPINFO line
	Length uint32

	rows    []string
	currRow int
}

// Open opens and parses the cyacd2 application image at path.
// Returns *InvalidFileTypeError if the path does not carry the .cyacd2
// extension and *InvalidApplicationFileError if the metadata lines are
// malformed. The file handle is released before Open returns; the image is
// consumed from an in-memory line buffer.
func Open(path string) (*Application, error) {
	if !strings.HasSuffix(path, FileExtension) {
		return nil, &InvalidFileTypeError{Path: path}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open application image: %w", err)
	}
	defer func() { _ = f.Close() }()

	return OpenReader(f)
}

// OpenReader parses a cyacd2 application image from any io.Reader.
// The reader is consumed in a single forward pass; no seeking is required.
func OpenReader(r io.Reader) (*Application, error) {
	scanner := bufio.NewScanner(r)
	// Rows carry a 4-byte address plus up to a full flash row of data,
	// hex-encoded. Allow generous line lengths.
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	app := &Application{}

	header, err := nextLine(scanner)
	if err != nil {
		return nil, &InvalidApplicationFileError{Reason: "missing header line"}
	}
	if err := app.parseHeader(header); err != nil {
		return nil, err
	}

	appInfo, err := nextLine(scanner)
	if err != nil {
		return nil, &InvalidApplicationFileError{Reason: "missing application info line"}
	}
	if err := app.parseAppInfo(appInfo); err != nil {
		return nil, err
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		app.rows = append(app.rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read application image: %w", err)
	}

	return app, nil
}

// NextRow returns the next data row in file order, advancing the cursor.
// Returns io.EOF once all rows are consumed; io.EOF is end-of-data, not a
// failure. A malformed row line yields *InvalidApplicationFileError and does
// not advance the cursor.
func (a *Application) NextRow() (*Row, error) {
	if a.currRow >= len(a.rows) {
		return nil, io.EOF
	}

	line := a.rows[a.currRow]
	if line[0] != rowMarker {
		return nil, &InvalidApplicationFileError{
			Reason: fmt.Sprintf("data row %d does not start with %q", a.currRow+1, string(rowMarker)),
		}
	}

	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return nil, &InvalidApplicationFileError{
			Reason: fmt.Sprintf("data row %d is not valid hex: %v", a.currRow+1, err),
		}
	}
	if len(raw) < RowAddressSize {
		return nil, &InvalidApplicationFileError{
			Reason: fmt.Sprintf("data row %d too short: got %d bytes, need at least %d", a.currRow+1, len(raw), RowAddressSize),
		}
	}

	row := &Row{
		Address: binary.LittleEndian.Uint32(raw[:RowAddressSize]),
		Data:    make([]byte, len(raw)-RowAddressSize),
	}
	copy(row.Data, raw[RowAddressSize:])

	a.currRow++
	return row, nil
}

// NumRows returns the total number of data rows in the image.
func (a *Application) NumRows() int {
	return len(a.rows)
}

// CurrentRow returns the number of rows consumed so far.
func (a *Application) CurrentRow() int {
	return a.currRow
}

// Close releases the buffered image data. It is idempotent, and further
// NextRow calls after Close report end-of-data.
func (a *Application) Close() error {
	a.rows = nil
	a.currRow = 0
	return nil
}

// parseHeader decodes the first image line.
//
// Header format (hex-encoded, exactly HeaderSize raw bytes):
//
//	[FILE_VERSION(1)][SILICON_ID(4, LE)][SILICON_REV(1)][CHECKSUM_TYPE(1)][APP_ID(1)][PRODUCT_ID(4, LE)]
func (a *Application) parseHeader(line string) error {
	raw, err := hex.DecodeString(line)
	if err != nil {
		return &InvalidApplicationFileError{Reason: fmt.Sprintf("header is not valid hex: %v", err)}
	}
	if len(raw) != HeaderSize {
		return &InvalidApplicationFileError{
			Reason: fmt.Sprintf("header decodes to %d bytes, expected %d", len(raw), HeaderSize),
		}
	}

	a.FileVersion = raw[0]
	a.SiliconID = binary.LittleEndian.Uint32(raw[1:5])
	a.SiliconRevision = raw[5]
	a.ChecksumType = raw[6]
	a.AppID = raw[7]
	a.ProductID = binary.LittleEndian.Uint32(raw[8:12])

	return nil
}

// parseAppInfo decodes the second image line:
//
//	@APPINFO:<startAddr>,<length>
//
// Both values are integer literals (0x prefix honored).
func (a *Application) parseAppInfo(line string) error {
	label, values, found := strings.Cut(line, ":")
	if !found || label != appInfoMarker {
		return &InvalidApplicationFileError{
			Reason: fmt.Sprintf("application info line does not carry the %s label", appInfoMarker),
		}
	}

	startField, lengthField, found := strings.Cut(values, ",")
	if !found {
		return &InvalidApplicationFileError{Reason: "application info line must carry start address and length"}
	}

	startAddr, err := strconv.ParseUint(strings.TrimSpace(startField), 0, 32)
	if err != nil {
		return &InvalidApplicationFileError{Reason: fmt.Sprintf("invalid application start address: %v", err)}
	}
	length, err := strconv.ParseUint(strings.TrimSpace(lengthField), 0, 32)
	if err != nil {
		return &InvalidApplicationFileError{Reason: fmt.Sprintf("invalid application length: %v", err)}
	}

	a.StartAddr = uint32(startAddr)
	a.Length = uint32(length)

	return nil
}

// nextLine returns the next non-empty, whitespace-trimmed line.
func nextLine(scanner *bufio.Scanner) (string, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
