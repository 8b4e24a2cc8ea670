package repository

import (
	"context"
	"time"
)

// ICacheStore is a namespaced key/value cache with expiry-on-read.
// Implementations never return errors: failures degrade to cache misses.
type ICacheStore interface {
	// Get decodes the entry into dest and reports whether a live entry was found
	Get(ctx context.Context, namespace, key string, dest interface{}) bool
	// Set upserts the entry; ttl <= 0 stores it without expiry
	Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, namespace, key string)
	ClearNamespace(ctx context.Context, namespace string)
	ClearAll(ctx context.Context)
	IsAvailable() bool
}
