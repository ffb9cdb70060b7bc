package dfu

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"github.com/moffa90/go-cydfu/cyacd2"
)

// crc32cTable is the Castagnoli polynomial table used for row checksums.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// Updater drives a complete firmware update session over a Host. One
// Updater owns one application image and one host per session; it aborts
// the session on the first unrecovered error from any command, leaving the
// device in whatever state the last acknowledged command left it. No
// rollback is attempted.
type Updater struct {
	host   *Host
	config Config
}

// NewUpdater creates an Updater over the given transport.
//
// Example:
//
//	updater := dfu.NewUpdater(transport,
//	    dfu.WithProgressCallback(progressFunc),
//	    dfu.WithMaxDataLength(512),
//	)
func NewUpdater(transport Transport, opts ...Option) *Updater {
	host := NewHost(transport, opts...)
	return &Updater{
		host:   host,
		config: host.config,
	}
}

// Host returns the underlying protocol host, for callers that need direct
// command access (metadata queries, sync) around an update session.
func (u *Updater) Host() *Host {
	return u.host
}

// Update performs the complete flash sequence:
//  1. Enter DFU with the image's product ID
//  2. Set the application metadata
//  3. Stream every row: CRC-32C over the whole row, then the data split
//     into MaxDataLength chunks — all but the last via Send Data, the last
//     via Program Data carrying the row address and checksum
//  4. Verify the application
//  5. Exit DFU
//
// The context is checked between rows; an in-flight command always runs to
// completion or timeout before the session stops.
func (u *Updater) Update(ctx context.Context, app *cyacd2.Application) error {
	start := time.Now()
	totalRows := app.NumRows()

	u.reportProgress(Progress{Phase: PhaseEntering, TotalRows: totalRows})

	info, err := u.host.EnterDFU(app.ProductID)
	if err != nil {
		return fmt.Errorf("enter DFU: %w", err)
	}
	u.logDebug("entered DFU",
		"jtag_id", fmt.Sprintf("0x%08X", info.JtagID),
		"device_rev", fmt.Sprintf("0x%02X", info.DeviceRev),
		"dfu_sdk_version", fmt.Sprintf("0x%08X", info.DFUSDKVersion),
	)

	if err := u.host.SetApplicationMetadata(app.AppID, app.StartAddr, app.Length); err != nil {
		return fmt.Errorf("set application metadata: %w", err)
	}
	u.logDebug("application metadata set",
		"app_id", app.AppID,
		"start_addr", fmt.Sprintf("0x%08X", app.StartAddr),
		"length", app.Length,
	)

	bytesWritten := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		row, err := app.NextRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read image row: %w", err)
		}

		if err := u.programRow(row); err != nil {
			return fmt.Errorf("program row %d/%d (addr 0x%08X): %w",
				app.CurrentRow(), totalRows, row.Address, err)
		}

		bytesWritten += len(row.Data)
		u.reportProgress(Progress{
			Phase:        PhaseProgramming,
			CurrentRow:   app.CurrentRow(),
			TotalRows:    totalRows,
			Percentage:   rowPercentage(app.CurrentRow(), totalRows),
			BytesWritten: bytesWritten,
			ElapsedTime:  time.Since(start),
		})
	}

	u.reportProgress(Progress{
		Phase:       PhaseVerifying,
		CurrentRow:  totalRows,
		TotalRows:   totalRows,
		Percentage:  95,
		ElapsedTime: time.Since(start),
	})

	result, err := u.host.VerifyApplication(app.AppID)
	if err != nil {
		return fmt.Errorf("verify application: %w", err)
	}
	if result != 1 {
		return &VerificationError{AppID: app.AppID, Result: result}
	}

	u.reportProgress(Progress{
		Phase:       PhaseExiting,
		CurrentRow:  totalRows,
		TotalRows:   totalRows,
		Percentage:  98,
		ElapsedTime: time.Since(start),
	})

	if err := u.host.ExitDFU(); err != nil {
		return fmt.Errorf("exit DFU: %w", err)
	}

	u.reportProgress(Progress{
		Phase:        PhaseComplete,
		CurrentRow:   totalRows,
		TotalRows:    totalRows,
		Percentage:   100,
		BytesWritten: bytesWritten,
		ElapsedTime:  time.Since(start),
	})
	u.logInfo("update complete",
		"rows", totalRows,
		"bytes", bytesWritten,
		"elapsed", time.Since(start).String(),
	)

	return nil
}

// Verify streams every image row through Verify Data without writing,
// bracketed by Enter DFU and Exit DFU. Useful to check a previously
// programmed device against an image.
func (u *Updater) Verify(ctx context.Context, app *cyacd2.Application) error {
	start := time.Now()
	totalRows := app.NumRows()

	u.reportProgress(Progress{Phase: PhaseEntering, TotalRows: totalRows})

	if _, err := u.host.EnterDFU(app.ProductID); err != nil {
		return fmt.Errorf("enter DFU: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		row, err := app.NextRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read image row: %w", err)
		}

		if err := u.verifyRow(row); err != nil {
			return fmt.Errorf("verify row %d/%d (addr 0x%08X): %w",
				app.CurrentRow(), totalRows, row.Address, err)
		}

		u.reportProgress(Progress{
			Phase:       PhaseVerifying,
			CurrentRow:  app.CurrentRow(),
			TotalRows:   totalRows,
			Percentage:  rowPercentage(app.CurrentRow(), totalRows),
			ElapsedTime: time.Since(start),
		})
	}

	if err := u.host.ExitDFU(); err != nil {
		return fmt.Errorf("exit DFU: %w", err)
	}

	u.reportProgress(Progress{
		Phase:       PhaseComplete,
		CurrentRow:  totalRows,
		TotalRows:   totalRows,
		Percentage:  100,
		ElapsedTime: time.Since(start),
	})

	return nil
}

// Erase erases every row address named by the image, bracketed by Enter DFU
// and Exit DFU.
func (u *Updater) Erase(ctx context.Context, app *cyacd2.Application) error {
	start := time.Now()
	totalRows := app.NumRows()

	u.reportProgress(Progress{Phase: PhaseEntering, TotalRows: totalRows})

	if _, err := u.host.EnterDFU(app.ProductID); err != nil {
		return fmt.Errorf("enter DFU: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		row, err := app.NextRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read image row: %w", err)
		}

		if err := u.host.EraseData(row.Address); err != nil {
			return fmt.Errorf("erase row %d/%d (addr 0x%08X): %w",
				app.CurrentRow(), totalRows, row.Address, err)
		}

		u.reportProgress(Progress{
			Phase:       PhaseErasing,
			CurrentRow:  app.CurrentRow(),
			TotalRows:   totalRows,
			Percentage:  rowPercentage(app.CurrentRow(), totalRows),
			ElapsedTime: time.Since(start),
		})
	}

	if err := u.host.ExitDFU(); err != nil {
		return fmt.Errorf("exit DFU: %w", err)
	}

	u.reportProgress(Progress{
		Phase:       PhaseComplete,
		CurrentRow:  totalRows,
		TotalRows:   totalRows,
		Percentage:  100,
		ElapsedTime: time.Since(start),
	})

	return nil
}

// programRow sends one image row. The CRC-32C is computed once over the
// entire row before any chunking; row chunking is purely a transport
// concern and must not affect the checksum.
func (u *Updater) programRow(row *cyacd2.Row) error {
	crc := crc32.Checksum(row.Data, crc32cTable)

	data := row.Data
	max := u.config.MaxDataLength
	for len(data) > max {
		if err := u.host.SendData(data[:max]); err != nil {
			return fmt.Errorf("send data chunk: %w", err)
		}
		data = data[max:]
	}

	return u.host.ProgramData(row.Address, crc, data)
}

// verifyRow is programRow with read-only comparison semantics.
func (u *Updater) verifyRow(row *cyacd2.Row) error {
	crc := crc32.Checksum(row.Data, crc32cTable)

	data := row.Data
	max := u.config.MaxDataLength
	for len(data) > max {
		if err := u.host.SendData(data[:max]); err != nil {
			return fmt.Errorf("send data chunk: %w", err)
		}
		data = data[max:]
	}

	return u.host.VerifyData(row.Address, crc, data)
}

// rowPercentage maps row progress onto the 2-95% band, leaving room for the
// enter and verify/exit phases at the edges.
func rowPercentage(current, total int) float64 {
	if total == 0 {
		return 95
	}
	return 2 + (float64(current)/float64(total))*93
}

func (u *Updater) reportProgress(progress Progress) {
	if u.config.ProgressCallback != nil {
		u.config.ProgressCallback(progress)
	}
}

func (u *Updater) logDebug(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (u *Updater) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}
