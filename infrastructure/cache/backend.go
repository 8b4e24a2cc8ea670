// Package cache implements the namespaced TTL cache used to avoid repeated YouTube quota spend.
package cache

import (
	"context"

	"ytcurator/domain/model"
)

// Backend is the raw storage behind Store. Backends report errors; Store turns them into misses.
type Backend interface {
	// Find returns nil, nil when the key does not exist
	Find(ctx context.Context, namespace, key string) (*model.CacheEntry, error)
	// Upsert writes the whole entry in a single atomic operation
	Upsert(ctx context.Context, namespace string, entry *model.CacheEntry) error
	Remove(ctx context.Context, namespace, key string) error
	RemoveAll(ctx context.Context, namespace string) error
	// Namespaces lists every namespace that currently holds entries
	Namespaces(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
