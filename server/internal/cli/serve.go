package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/creditlens/creditscore/server/internal/api"
	"github.com/creditlens/creditscore/server/internal/config"
	"github.com/creditlens/creditscore/server/internal/logging"
	"github.com/creditlens/creditscore/server/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scoring HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}

			logger := logging.Setup(os.Stdout, logging.Config{
				Level: cfg.Server.Level(),
				Debug: flags.debug,
			})
			logger.Info("creditscore starting",
				"version", Version,
				"config", flags.configPath,
				"http_port", cfg.Server.HTTPPort,
				"score_path", cfg.Server.ScorePath,
				"bureau_path", cfg.Server.BureauPath,
				"metrics", cfg.Server.Metrics.Enabled,
			)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if flags.configPath != "" {
				go func() {
					err := config.Watch(ctx, flags.configPath, func(c *config.Config) {
						logger.SetLevel(c.Server.Level())
					})
					if err != nil {
						logger.Error("config watch stopped", "err", err)
					}
				}()
			}

			lis, err := net.Listen("tcp", cfg.Server.Addr())
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Server.Addr(), err)
			}
			return serve(ctx, cfg, lis, logger.Logger)
		},
	}
}

// serve runs the HTTP API on lis until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func serve(ctx context.Context, cfg *config.Config, lis net.Listener, logger *slog.Logger) error {
	opts := api.Options{
		ScorePath:    cfg.Server.ScorePath,
		BureauPath:   cfg.Server.BureauPath,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       logger,
	}
	if cfg.Server.Metrics.Enabled {
		opts.Metrics = metrics.NewRegistry()
		opts.MetricsPath = cfg.Server.Metrics.Path
	}

	httpSrv := &http.Server{
		Handler:      api.New(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", lis.Addr().String())
		if err := httpSrv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("creditscore shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
