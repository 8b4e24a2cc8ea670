package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"ytcurator/domain/model"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBackend_UpsertUsesNativeExpiry(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	backend := NewRedisBackend(rdb, "test")

	stored := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	exp := stored.Add(30 * time.Minute)
	entry := &model.CacheEntry{Key: "subscriptions", Data: []byte(`[]`), Timestamp: stored, ExpiresAt: &exp}
	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	mock.ExpectSet("test:cache:channels:subscriptions", raw, 30*time.Minute).SetVal("OK")
	mock.ExpectSAdd("test:namespaces", "channels").SetVal(1)

	require.NoError(t, backend.Upsert(context.Background(), "channels", entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_FindMissing(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("test:cache:videos:latest").RedisNil()

	entry, err := NewRedisBackend(rdb, "test").Find(context.Background(), "videos", "latest")

	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_FindDecodesEntry(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	stored := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(&model.CacheEntry{Key: "all", Data: []byte(`[{"id":"p"}]`), Timestamp: stored})
	require.NoError(t, err)
	mock.ExpectGet("test:cache:playlists:all").SetVal(string(raw))

	entry, err := NewRedisBackend(rdb, "test").Find(context.Background(), "playlists", "all")

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.JSONEq(t, `[{"id":"p"}]`, string(entry.Data))
	assert.Nil(t, entry.ExpiresAt)
}

func TestRedisBackend_RemoveAllScansNamespace(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectScan(0, "test:cache:videos:*", 100).SetVal([]string{"test:cache:videos:latest", "test:cache:videos:shorts"}, 0)
	mock.ExpectDel("test:cache:videos:latest", "test:cache:videos:shorts").SetVal(2)
	mock.ExpectSRem("test:namespaces", "videos").SetVal(1)

	require.NoError(t, NewRedisBackend(rdb, "test").RemoveAll(context.Background(), "videos"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_ErrorsDegradeInStore(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("test:cache:channels:subscriptions").SetErr(errors.New("connection refused"))

	var got []model.Channel
	ok := NewStore(NewRedisBackend(rdb, "test"), time.Second).Get(context.Background(), "channels", "subscriptions", &got)

	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
