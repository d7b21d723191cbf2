// Package cartstate persists the storefront cart as an opaque JSON record
// under a fixed key. The cart service owns the record layout; backends only
// move bytes.
package cartstate

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/config"
	"storefront/internal/db"
)

// Repository stores one payload per key. Load returns domain.ErrNotFound
// when nothing has been saved under key.
type Repository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Open builds the repository selected by cfg.Backend. dsn is only used by
// the postgres backend.
func Open(ctx context.Context, cfg config.CartConfig, dsn string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case "", BackendBolt:
		return OpenBolt(cfg.FilePath())
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.FilePath())
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr)
	case BackendPostgres:
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect cart db: %w", err)
		}
		return NewPostgres(pool), nil
	default:
		return nil, fmt.Errorf("unknown cart backend %q", cfg.Backend)
	}
}

func requireKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("cart key is required")
	}
	return nil
}
