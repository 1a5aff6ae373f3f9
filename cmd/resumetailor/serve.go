package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/amishk599/resumetailor/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long:  "Serve POST /api/completions, the history endpoints and POST /api/render; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, logger)
	if err != nil {
		return err
	}
	defer p.close()

	addr := serveAddr
	if addr == "" {
		addr = p.cfg.Server.Addr
	}

	srv := server.New(p.recorder, p.store, logger)
	if err := srv.Run(ctx, addr); err != nil {
		return err
	}

	logger.Info("goodbye")
	return nil
}
