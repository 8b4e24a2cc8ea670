package cache

import (
	"context"
	"sort"
	"sync"

	"ytcurator/domain/model"
)

// MemoryBackend keeps entries in process memory
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]model.CacheEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]map[string]model.CacheEntry)}
}

func (m *MemoryBackend) Find(_ context.Context, namespace, key string) (*model.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.data[namespace][key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *MemoryBackend) Upsert(_ context.Context, namespace string, entry *model.CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[namespace] == nil {
		m.data[namespace] = make(map[string]model.CacheEntry)
	}
	m.data[namespace][entry.Key] = *entry
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[namespace], key)
	return nil
}

func (m *MemoryBackend) RemoveAll(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, namespace)
	return nil
}

func (m *MemoryBackend) Namespaces(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data))
	for ns := range m.data {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryBackend) Ping(context.Context) error  { return nil }
func (m *MemoryBackend) Close(context.Context) error { return nil }
