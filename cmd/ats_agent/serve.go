package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/ats-tailor/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay and API server",
	Long: `Start an HTTP server that relays browser requests to the providers
(/api/openai, /api/anthropic) and runs assessments server-side
(/api/assess, /api/adapt). A configured provider becomes the default for
requests without an X-Provider header.`,
}

func init() {
	serveCmd.RunE = runServe
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	srv, err := server.New(a.cfg.Server, a.service, server.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Start(ctx)
}
