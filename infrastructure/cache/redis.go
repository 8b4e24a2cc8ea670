package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ytcurator/domain/model"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores one JSON value per key under <prefix>:cache:<namespace>:<key>.
// Redis expiry mirrors ExpiresAt; a set at <prefix>:namespaces tracks known namespaces.
type RedisBackend struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisBackend(rdb redis.UniversalClient, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "ytcurator"
	}
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (r *RedisBackend) entryKey(namespace, key string) string {
	return fmt.Sprintf("%s:cache:%s:%s", r.prefix, namespace, key)
}

func (r *RedisBackend) namespacesKey() string {
	return r.prefix + ":namespaces"
}

func (r *RedisBackend) Find(ctx context.Context, namespace, key string) (*model.CacheEntry, error) {
	raw, err := r.rdb.Get(ctx, r.entryKey(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry model.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode redis entry: %w", err)
	}
	return &entry, nil
}

func (r *RedisBackend) Upsert(ctx context.Context, namespace string, entry *model.CacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if entry.ExpiresAt != nil {
		ttl = entry.ExpiresAt.Sub(entry.Timestamp)
		if ttl <= 0 {
			return r.Remove(ctx, namespace, entry.Key)
		}
	}
	if err := r.rdb.Set(ctx, r.entryKey(namespace, entry.Key), raw, ttl).Err(); err != nil {
		return err
	}
	return r.rdb.SAdd(ctx, r.namespacesKey(), namespace).Err()
}

func (r *RedisBackend) Remove(ctx context.Context, namespace, key string) error {
	return r.rdb.Del(ctx, r.entryKey(namespace, key)).Err()
}

func (r *RedisBackend) RemoveAll(ctx context.Context, namespace string) error {
	pattern := r.entryKey(namespace, "*")
	var cursor uint64
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return r.rdb.SRem(ctx, r.namespacesKey(), namespace).Err()
}

func (r *RedisBackend) Namespaces(ctx context.Context) ([]string, error) {
	names, err := r.rdb.SMembers(ctx, r.namespacesKey()).Result()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisBackend) Close(context.Context) error {
	return r.rdb.Close()
}
