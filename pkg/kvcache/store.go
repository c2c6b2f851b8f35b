package kvcache

import (
	"context"
	"fmt"

	"friendsofmonika/masvalidator/pkg/config"
)

// Backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// New opens the store selected by cfg.Backend.
func New(ctx context.Context, cfg *config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(cfg.KeyPrefix), nil
	case BackendSQLite:
		store, err := NewSQLiteStore(SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Prefix:      cfg.KeyPrefix,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		store, err := NewRedisStore(ctx, RedisConfig{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// DriverType reports which SQLite driver the binary was built with.
func DriverType() string {
	return sqliteDriverType
}
