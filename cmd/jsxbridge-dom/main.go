// Command jsxbridge-dom serves the ExtendScript reference database over
// MCP stdio. Build the database first with "jsxbridge build-all".
//
// Stdout belongs to the MCP transport; all logging goes to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/jonwraymond/jsxbridge/domdb"
	"github.com/jonwraymond/jsxbridge/server"
)

const version = "2.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "jsxbridge-dom: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("jsxbridge-dom", pflag.ExitOnError)
	dbPath := flags.String("db", "", "reference database path (default: $EXTENDSCRIPT_DB)")
	logLevel := flags.String("log-level", "info", "log level")
	flags.Parse(os.Args[1:])

	path := *dbPath
	if path == "" {
		path = os.Getenv("EXTENDSCRIPT_DB")
	}
	if path == "" {
		path = "extendscript.db"
	}

	logger := newLogger(*logLevel)

	store, err := domdb.Open(domdb.Config{Path: path, Logger: &logger})
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.NewDOM(store, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info().Str("db", path).Msg("reference server starting on stdio")
	return srv.Run(ctx)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "jsxbridge-dom").Logger()
}
