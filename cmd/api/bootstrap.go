package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/persistence"
	"github.com/spec-kit/lostfound-service/internal/repository"
	"github.com/spec-kit/lostfound-service/internal/repository/sqlite"
)

// backend owns the database handles behind a repository.Store.
type backend struct {
	store    repository.Store
	postgres *persistence.Postgres
	sqlite   *sql.DB
}

func (b *backend) Close() {
	if b.postgres != nil {
		b.postgres.Close()
	}
	if b.sqlite != nil {
		_ = b.sqlite.Close()
	}
}

// openStore connects to the configured database. When migrate is set the
// schema is brought up to date before the store is returned.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrate bool) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := persistence.OpenSQLite(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := sqlite.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("apply sqlite schema: %w", err)
			}
			logger.Info("sqlite schema applied")
		}
		return &backend{store: sqlite.New(db), sqlite: db}, nil

	case config.DriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if pg.PoolHandle() == nil {
			return nil, errors.New("POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		if migrate {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &backend{store: repository.NewPostgresStore(pg.PoolHandle()), postgres: pg}, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
}

// openRevoker prefers Redis for token revocation and falls back to process
// memory when Redis is not configured or unreachable. The returned Redis
// handle is nil in the fallback case.
func openRevoker(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (auth.Revoker, *persistence.Redis) {
	if cfg.Addr == "" {
		logger.Info("redis not configured; token revocation kept in memory")
		return auth.NewMemoryRevoker(), nil
	}
	rdb := persistence.NewRedis(cfg, logger)
	if err := rdb.Ping(ctx); err != nil {
		logger.Warn("redis unavailable; token revocation kept in memory", zap.Error(err))
		rdb.Close()
		return auth.NewMemoryRevoker(), nil
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return auth.NewRedisRevoker(rdb.Client), rdb
}
