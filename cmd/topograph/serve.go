package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/topograph-service/internal/config"
	"github.com/MalithGihan/topograph-service/internal/logging"
	"github.com/MalithGihan/topograph-service/internal/metrics"
	"github.com/MalithGihan/topograph-service/internal/server"
	"github.com/MalithGihan/topograph-service/internal/store"
)

func serveCmd() *cobra.Command {
	var (
		port     string
		dataRoot string
		noSample bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the topology HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if dataRoot != "" {
				cfg.Server.DataRoot = dataRoot
			}
			if noSample {
				cfg.Server.SeedSample = false
			}
			logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format, os.Stderr)

			st, err := store.New(cfg.Server.DataRoot)
			if err != nil {
				return err
			}
			if cfg.Server.SeedSample {
				if err := server.SeedSample(st); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := server.New(cfg, st, metrics.New())
			if err := srv.ListenAndServe(ctx); err != nil {
				logging.Error("server", err, "server stopped")
				return err
			}
			logging.Info("server", "shut down cleanly")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&dataRoot, "data-root", "", "topology store directory (overrides DATA_ROOT)")
	cmd.Flags().BoolVar(&noSample, "no-sample", false, "do not seed the sample topology into an empty store")
	return cmd
}
