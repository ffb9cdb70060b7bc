// Package cyacd2 parses cyacd2 application image files for DFU transfers.
//
// # File Format
//
// A cyacd2 file is plain text. The first line is the hex-encoded 12-byte
// header, the second line carries the application verification info, and
// every following line is one data row:
//
//	<header: 24 hex chars>
//	@APPINFO:<startAddr>,<length>
//	:<hex-encoded address(4, LE) + row data>
//	:<...>
//
// Header fields:
//
//	[FILE_VERSION(1)][SILICON_ID(4, LE)][SILICON_REV(1)][CHECKSUM_TYPE(1)][APP_ID(1)][PRODUCT_ID(4, LE)]
//
// # Usage
//
//	app, err := cyacd2.Open("firmware.cyacd2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Close()
//
//	for {
//	    row, err := app.NextRow()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    // program row.Address / row.Data
//	}
//
// Rows are yielded strictly in file order, never re-ordered or deduplicated.
// The parser performs no semantic validation of addresses (overlap,
// alignment); the device reports such problems through the Program Data and
// Verify Data command status.
package cyacd2
