package cache

import (
	"context"
	"fmt"
	"net"
	"strings"

	"ytcurator/domain/repository"
	"ytcurator/infrastructure/configuration"
	"ytcurator/infrastructure/logger"
	"ytcurator/infrastructure/persistence"

	"github.com/redis/go-redis/v9"
)

// Open selects the cache backend named by cfg.Cache.Driver and verifies it is reachable.
// Any failure yields a NullStore so the application keeps serving without a cache.
// The returned close function is never nil.
func Open(ctx context.Context, cfg configuration.Config) (repository.ICacheStore, func(context.Context) error) {
	noop := func(context.Context) error { return nil }
	driver := strings.ToLower(strings.TrimSpace(cfg.Cache.Driver))
	log := logger.GetLogger().WithField("driver", driver)

	if driver == "none" || driver == "" {
		log.Info("Cache disabled")
		return NullStore{}, noop
	}

	backend, err := newBackend(ctx, driver, cfg)
	if err != nil {
		log.WithField("error", err).Warn("Cache backend unavailable, continuing without cache")
		return NullStore{}, noop
	}

	connectTimeout := cfg.Cache.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultOperationTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := backend.Ping(pingCtx); err != nil {
		log.WithField("error", err).Warn("Cache backend unreachable, continuing without cache")
		_ = backend.Close(ctx)
		return NullStore{}, noop
	}

	log.Info("Cache backend connected")
	store := NewStore(backend, cfg.Cache.OperationTimeout)
	return store, store.Close
}

func newBackend(ctx context.Context, driver string, cfg configuration.Config) (Backend, error) {
	switch driver {
	case "memory":
		return NewMemoryBackend(), nil
	case "mongo", "mongodb":
		return NewMongoBackend(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Cache.ConnectTimeout)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:        net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
			Username:    cfg.Redis.Username,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Cache.ConnectTimeout,
		})
		return NewRedisBackend(rdb, cfg.Redis.Prefix), nil
	case "postgres", "postgresql":
		db, err := persistence.NewPostgreSQLDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := EnsurePostgresSchema(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return NewPostgresBackend(db), nil
	case "mysql":
		gdb, err := OpenMySQL(cfg.MySQL.Host, cfg.MySQL.Port, cfg.MySQL.User, cfg.MySQL.Password, cfg.MySQL.Name)
		if err != nil {
			return nil, err
		}
		backend := NewMySQLBackend(gdb)
		if err := backend.Migrate(ctx); err != nil {
			_ = backend.Close(ctx)
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}
