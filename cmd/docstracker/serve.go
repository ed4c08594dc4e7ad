package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/spf13/cobra"

	"github.com/webframp/docstracker/srv"
)

var (
	serveListen  string
	serveNoWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the change table over HTTP",
	Long: `Serve the change table as a web page, a JSON API under /api/ and a
live-reload websocket on /live.

Examples:
  docstracker serve
  docstracker serve --listen :9000 --feed https://example.com/changes.json`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", ":8000", "address to listen on")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not reload a local feed file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry()
	if err != nil {
		slog.Warn("telemetry disabled", "error", err)
	} else {
		defer otelShutdown()
	}

	cfg := loadConfig()
	if serveNoWatch {
		cfg.FeedWatch = false
	}
	if hostname, err := os.Hostname(); err == nil {
		cfg.Hostname = hostname
	}

	server, err := srv.New(cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Serve(ctx, serveListen)
}
