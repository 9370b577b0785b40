package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
)

// Open creates the Storage selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Storage, writer string) (Storage, error) {
	switch cfg.Backend {
	case "", "sqlite":
		db, err := database.NewDatabase(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLStorage(db, writer), nil
	case "redis":
		return NewRedisStorage(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, writer)
	case "memory":
		return NewMemoryStorage(writer), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
