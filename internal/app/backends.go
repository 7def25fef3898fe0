package app

import (
	"context"
	"fmt"
	"log/slog"

	"hotable/internal/config"
	"hotable/internal/db"
	"hotable/internal/session"
)

// OpenRepository returns the restaurant store selected by HOTABLE_STORE,
// migrated and seeded from the catalog.
func OpenRepository(ctx context.Context, cfg config.ServerConfig, stack *Stack, logger *slog.Logger) (db.Repository, error) {
	seed := db.SeedRestaurants(stack.Profiles)

	switch cfg.Store {
	case config.StorePostgres:
		store, err := db.New(ctx, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		if err := store.Seed(ctx, seed); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed postgres: %w", err)
		}
		logger.Info("restaurant store ready", "backend", cfg.Store)
		return store, nil
	case config.StoreSQLite:
		store, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		if err := store.Seed(ctx, seed); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed sqlite: %w", err)
		}
		logger.Info("restaurant store ready", "backend", cfg.Store, "path", cfg.SQLitePath)
		return store, nil
	default:
		logger.Info("restaurant store ready", "backend", config.StoreMemory)
		return db.NewMemoryStore(seed), nil
	}
}

// OpenSessions returns the session store selected by SESSION_BACKEND. The
// memory store is swept for expired sessions until ctx is done.
func OpenSessions(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) (session.Store, error) {
	if cfg.SessionBackend == config.SessionRedis {
		store, err := session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("session store ready", "backend", cfg.SessionBackend, "addr", cfg.RedisAddr)
		return store, nil
	}
	store := session.NewMemoryStore(cfg.SessionTTL)
	go store.RunSweeper(ctx, session.SweepInterval(cfg.SessionTTL), logger)
	logger.Info("session store ready", "backend", config.SessionMemory, "ttl", cfg.SessionTTL)
	return store, nil
}
