package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
}

// Open constructs the configured backend.  Postgres schemas are migrated
// before the store is returned.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewInMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, nil)
	case BackendPostgres:
		pg, err := NewPostgresStore(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
