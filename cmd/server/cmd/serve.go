package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Togather-Foundation/venues/internal/api"
	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/metrics"
	"github.com/Togather-Foundation/venues/internal/telemetry"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *globalOptions) *cobra.Command {
	var (
		serverHost string
		serverPort int
	)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the venues HTTP server",
		Long: `Start the venues HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Open the configured storage backend, migrating postgres if enabled
- Serve the JSON API, health probes and Prometheus metrics
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (in-memory storage)
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start against postgres
  STORAGE_BACKEND=postgres DATABASE_URL=postgres://localhost/venues server serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, opts, serverHost, serverPort)
		},
	}

	serve.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serve.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
	return serve
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, opts *globalOptions, host string, port int) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Str("backend", cfg.Storage.Backend).Msg("starting venues server")

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	if be.pool != nil {
		dbCollector := metrics.NewDBCollector(be.pool)
		go dbCollector.Start(ctx, 15*time.Second)
		defer dbCollector.Stop()
	}

	service := be.newService(logger)
	if report, err := service.Audit(ctx); err != nil {
		logger.Error().Err(err).Msg("startup consistency audit failed")
	} else {
		metrics.RecordAudit(report)
	}

	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(cfg, logger, api.Dependencies{
			Service: service,
			Storage: be.pinger,
			Build:   api.BuildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate},
		}),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	})
	return g.Wait()
}
