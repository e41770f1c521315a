package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/posematch"
	"github.com/aretw0/posematch/internal/cli"
	"github.com/aretw0/posematch/internal/presentation/tui"
	httpAdapter "github.com/aretw0/posematch/pkg/adapters/http"
	"github.com/aretw0/posematch/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stateless HTTP match server",
	Long:  `Exposes POST /match, GET /healthz, GET /info and GET /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")

		reg := prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}

		engine, closeStore, err := cli.CreateEngine(cfg, logger, posematch.WithHooks(metrics.Hooks(logger)))
		if err != nil {
			return err
		}
		defer func() { _ = closeStore() }()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(engine, reg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		tui.PrintBanner(cmd.ErrOrStderr())

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting posematch server", "addr", srv.Addr, "epsilon", engine.Epsilon())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			logger.Error("Server error", "error", err)
			return err

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					logger.Error("Error killing server", "error", err)
				}
			}
			logger.Info("posematch server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
