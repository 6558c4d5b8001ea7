package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Togather-Foundation/venues/internal/api/handlers"
	"github.com/Togather-Foundation/venues/internal/config"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/metrics"
	"github.com/Togather-Foundation/venues/internal/storage/memory"
	"github.com/Togather-Foundation/venues/internal/storage/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// backend is an opened storage backend.
type backend struct {
	repo venues.Repository
	// pinger is nil for the in-process backend.
	pinger handlers.Pinger
	pool   *pgxpool.Pool
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// newService wires the engine over the backend with logging and metrics.
func (b *backend) newService(logger zerolog.Logger) *venues.Service {
	return venues.NewService(b.repo,
		venues.WithLogger(logger),
		venues.WithObserver(metrics.ObserveOperation),
	)
}

// openBackend opens the configured storage. For postgres it connects the
// pool and, when enabled, applies pending migrations first.
func openBackend(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		logger.Warn().Msg("using in-memory storage; data is lost on exit")
		return &backend{repo: memory.NewRepository()}, nil

	case config.BackendPostgres:
		if cfg.Storage.AutoMigrate {
			if err := postgres.MigrateUp(cfg.Database.URL, cfg.Storage.MigrationsPath); err != nil {
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info().Str("path", cfg.Storage.MigrationsPath).Msg("migrations applied")
		}

		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := postgres.NewPool(connectCtx, cfg.Database.URL, cfg.Database.MaxConnections)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		repo, err := postgres.NewRepository(pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("repository init failed: %w", err)
		}
		return &backend{repo: repo, pinger: repo, pool: pool}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
