package cache

import (
	"context"
	"encoding/json"
	"time"

	"ytcurator/domain/apperror"
	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"
)

const defaultOperationTimeout = 5 * time.Second

// Store is the live cache. Every backend failure is logged and degrades to a miss or a no-op.
type Store struct {
	backend Backend
	timeout time.Duration
	now     func() time.Time
}

// NewStore wraps backend; opTimeout <= 0 uses 5s
func NewStore(backend Backend, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = defaultOperationTimeout
	}
	return &Store{backend: backend, timeout: opTimeout, now: time.Now}
}

var _ repository.ICacheStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, namespace, key string, dest interface{}) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entry, err := s.backend.Find(ctx, namespace, key)
	if err != nil {
		s.warn(apperror.Cache(err, "cache read failed"), namespace, key)
		return false
	}
	if entry == nil {
		return false
	}
	if entry.Expired(s.now()) {
		if err := s.backend.Remove(ctx, namespace, key); err != nil {
			s.warn(apperror.Cache(err, "cache expiry delete failed"), namespace, key)
		}
		return false
	}
	if err := json.Unmarshal(entry.Data, dest); err != nil {
		s.warn(apperror.Cache(err, "cache payload decode failed"), namespace, key)
		return false
	}
	return true
}

func (s *Store) Set(ctx context.Context, namespace, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.warn(apperror.Cache(err, "cache payload encode failed"), namespace, key)
		return
	}
	now := s.now()
	entry := &model.CacheEntry{Key: key, Data: data, Timestamp: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		entry.ExpiresAt = &exp
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.Upsert(ctx, namespace, entry); err != nil {
		s.warn(apperror.Cache(err, "cache write failed"), namespace, key)
	}
}

func (s *Store) Delete(ctx context.Context, namespace, key string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.Remove(ctx, namespace, key); err != nil {
		s.warn(apperror.Cache(err, "cache delete failed"), namespace, key)
	}
}

func (s *Store) ClearNamespace(ctx context.Context, namespace string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.RemoveAll(ctx, namespace); err != nil {
		s.warn(apperror.Cache(err, "cache clear failed"), namespace, "")
	}
}

// ClearAll clears every namespace; a failing namespace does not stop the others
func (s *Store) ClearAll(ctx context.Context) {
	listCtx, cancel := context.WithTimeout(ctx, s.timeout)
	namespaces, err := s.backend.Namespaces(listCtx)
	cancel()
	if err != nil {
		s.warn(apperror.Cache(err, "cache namespace listing failed"), "", "")
		return
	}
	for _, ns := range namespaces {
		s.ClearNamespace(ctx, ns)
	}
	logger.GetLogger().WithField("namespaces", len(namespaces)).Info("Cache cleared")
}

func (s *Store) IsAvailable() bool { return true }

// Close releases the backend connection
func (s *Store) Close(ctx context.Context) error {
	return s.backend.Close(ctx)
}

func (s *Store) warn(err error, namespace, key string) {
	logger.GetLogger().WithFields(map[string]interface{}{
		"error":     err,
		"namespace": namespace,
		"key":       key,
	}).Warn("Cache operation degraded")
}

// NullStore is selected when no backend is reachable: reads miss, writes are dropped.
type NullStore struct{}

var _ repository.ICacheStore = NullStore{}

func (NullStore) Get(context.Context, string, string, interface{}) bool           { return false }
func (NullStore) Set(context.Context, string, string, interface{}, time.Duration) {}
func (NullStore) Delete(context.Context, string, string)                          {}
func (NullStore) ClearNamespace(context.Context, string)                          {}
func (NullStore) ClearAll(context.Context)                                        {}
func (NullStore) IsAvailable() bool                                               { return false }
