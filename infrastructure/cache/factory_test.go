package cache

import (
	"context"
	"testing"

	"ytcurator/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
)

func TestOpen_Memory(t *testing.T) {
	store, closeFn := Open(context.Background(), configuration.Config{Cache: configuration.Cache{Driver: "memory"}})

	assert.True(t, store.IsAvailable())
	assert.NoError(t, closeFn(context.Background()))
}

func TestOpen_DisabledAndUnknownFallBackToNull(t *testing.T) {
	for _, driver := range []string{"none", "", "cassandra"} {
		store, closeFn := Open(context.Background(), configuration.Config{Cache: configuration.Cache{Driver: driver}})

		assert.False(t, store.IsAvailable(), driver)
		assert.NoError(t, closeFn(context.Background()))
	}
}
