package builder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/starlenz/patent-assistant/internal/config"
	"github.com/starlenz/patent-assistant/internal/repository"
	"go.uber.org/zap"
)

// setupDatabase creates a new database connection pool
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	ctx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		zap.Duration("max_conn_idle_time", poolConfig.MaxConnIdleTime),
		zap.Duration("health_check_period", poolConfig.HealthCheckPeriod),
	)

	return pool, nil
}

// setupStorage connects the analysis repository. Storage is optional:
// without a reachable, migrated database the wizard still runs and every
// save reports the storage as unavailable.
func setupStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.AnalysisRepository, *pgxpool.Pool) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set, analyses will not be stored")
		return repository.UnavailableRepository{}, nil
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("database is unavailable, analyses will not be stored", zap.Error(err))
		return repository.UnavailableRepository{}, nil
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.MigrationsSource, cfg.DatabaseURL); err != nil {
		logger.Error("database migrations failed, analyses will not be stored", zap.Error(err))
		db.Close()
		return repository.UnavailableRepository{}, nil
	}
	logger.Info("Database migrations completed successfully")

	return repository.NewAnalysisPostgres(db), db
}
