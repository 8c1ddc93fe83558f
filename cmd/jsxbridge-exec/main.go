// Command jsxbridge-exec serves the InDesign execution tools over MCP
// stdio. It attaches to (or launches) a local InDesign instance via COM
// and runs ExtendScript on behalf of connected agents.
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

	"github.com/jonwraymond/jsxbridge/bridge"
	"github.com/jonwraymond/jsxbridge/comhost"
	"github.com/jonwraymond/jsxbridge/server"
)

const version = "2.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "jsxbridge-exec: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("jsxbridge-exec", pflag.ExitOnError)
	configPath := flags.String("config", "", "path to TOML config file")
	logLevel := flags.String("log-level", "", "log level (overrides config)")
	flags.Parse(os.Args[1:])

	cfg, err := loadServiceConfig(*configPath)
	if err != nil {
		return err
	}
	cfg = applyEnv(cfg)
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := newLogger(cfg.LogLevel)

	if err := comhost.Initialize(); err != nil {
		return err
	}
	defer comhost.Uninitialize()

	b, err := bridge.New(bridge.Options{
		Dialer:            comhost.Dialer{},
		ProgIDs:           cfg.ProgIDs,
		SlowCallThreshold: cfg.SlowCallThreshold,
		Logger:            &logger,
	})
	if err != nil {
		return err
	}
	defer b.Disconnect()

	srv, err := server.NewExec(b, version)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info().
		Strs("prog_ids", cfg.ProgIDs).
		Dur("slow_call_threshold", cfg.SlowCallThreshold).
		Msg("exec server starting on stdio")
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
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "jsxbridge-exec").Logger()
}
