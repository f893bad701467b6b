package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"marketplace/client/internal/config"
	"marketplace/client/internal/log"
	"marketplace/client/internal/sandbox/server"
)

// marketplace-sandbox serves an in-memory marketplace API for local
// development and for the client's integration tests.
func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "marketplace-sandbox",
		Short:         "Serve an in-memory marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			logger := log.New(cfg.Environment, cfg.Logging.Level)
			httpServer := server.NewHTTPServer(cfg, logger)

			go func() {
				if err := httpServer.Start(); err != nil {
					logger.Fatal().Err(err).Msg("http server failed")
				}
			}()

			waitForShutdown(logger, httpServer)
			return nil
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to marketplace.yaml")

	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("sandbox exited cleanly")
}
