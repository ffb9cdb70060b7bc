package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/akamensky/argparse"
	"github.com/rs/zerolog"

	"github.com/moffa90/go-cydfu/cyacd2"
	"github.com/moffa90/go-cydfu/dfu"
)

// cydfu-flash flashes a cyacd2 application image onto a DFU device reachable
// through a stream bridge (TCP gateway or serial device exposed as a socket).
// Device discovery and pairing are the bridge's concern.
func main() {
	parser := argparse.NewParser("cydfu-flash", "Flash a cyacd2 application image over the DFU host protocol")

	file := parser.String("f", "file", &argparse.Options{Required: true, Help: "Path to the .cyacd2 application image"})
	addr := parser.String("a", "address", &argparse.Options{Required: false, Help: "Bridge address (host:port) of the DFU transport"})
	cfgPath := parser.String("c", "config", &argparse.Options{Required: false, Help: "Path to a TOML config file"})
	info := parser.Flag("i", "info", &argparse.Options{Help: "Print image information and exit"})
	verify := parser.Flag("", "verify", &argparse.Options{Help: "Verify the device against the image instead of programming"})
	erase := parser.Flag("", "erase", &argparse.Options{Help: "Erase the rows named by the image instead of programming"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{Help: "Enable debug logging"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	cfg := defaultToolConfig()
	if *cfgPath != "" {
		loaded, err := loadToolConfig(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	log := newLogger(cfg.LogLevel, *verbose)

	app, err := cyacd2.Open(*file)
	if err != nil {
		var fileType *cyacd2.InvalidFileTypeError
		if errors.As(err, &fileType) {
			fmt.Print(parser.Usage(err))
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	printImageInfo(app)
	if *info {
		return
	}

	if *addr == "" {
		fmt.Print(parser.Usage(errors.New("an address is required unless --info is given")))
		os.Exit(1)
	}

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		log.Error().Err(err).Str("address", *addr).Msg("connect to bridge")
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	transport := dfu.NewStreamTransport(conn)
	defer func() { _ = transport.Close() }()

	opts := append(cfg.options(),
		dfu.WithLogger(zerologAdapter{log: log}),
		dfu.WithProgressCallback(printProgress),
	)
	updater := dfu.NewUpdater(transport, opts...)

	ctx := context.Background()
	switch {
	case *verify:
		err = updater.Verify(ctx, app)
	case *erase:
		err = updater.Erase(ctx, app)
	default:
		err = updater.Update(ctx, app)
	}
	if err != nil {
		log.Error().Err(err).Msg("session aborted")
		os.Exit(1)
	}

	fmt.Println("Done.")
}

func printImageInfo(app *cyacd2.Application) {
	fmt.Printf("Application image:\n")
	fmt.Printf("  File Version:  0x%02X\n", app.FileVersion)
	fmt.Printf("  Silicon ID:    0x%08X (rev 0x%02X)\n", app.SiliconID, app.SiliconRevision)
	fmt.Printf("  App ID:        %d\n", app.AppID)
	fmt.Printf("  Product ID:    0x%08X\n", app.ProductID)
	fmt.Printf("  Start Address: 0x%08X\n", app.StartAddr)
	fmt.Printf("  Length:        %d bytes\n", app.Length)
	fmt.Printf("  Rows:          %d\n", app.NumRows())
	fmt.Println()
}

func printProgress(p dfu.Progress) {
	if p.TotalRows > 0 && (p.Phase == dfu.PhaseProgramming || p.Phase == dfu.PhaseVerifying || p.Phase == dfu.PhaseErasing) {
		fmt.Printf("[%s] %5.1f%%  row %d/%d\n", p.Phase, p.Percentage, p.CurrentRow, p.TotalRows)
		return
	}
	fmt.Printf("[%s]\n", p.Phase)
}

func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// zerologAdapter binds the dfu Logger interface to zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

func (a zerologAdapter) Debug(msg string, keysAndValues ...interface{}) {
	logEvent(a.log.Debug(), msg, keysAndValues)
}

func (a zerologAdapter) Info(msg string, keysAndValues ...interface{}) {
	logEvent(a.log.Info(), msg, keysAndValues)
}

func (a zerologAdapter) Error(msg string, keysAndValues ...interface{}) {
	logEvent(a.log.Error(), msg, keysAndValues)
}

func logEvent(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		e = e.Interface(key, keysAndValues[i+1])
	}
	e.Msg(msg)
}
