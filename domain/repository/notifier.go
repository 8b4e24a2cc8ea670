package repository

import (
	"context"

	"ytcurator/domain/model"
)

// ISyncNotifier receives progress events of a forced resync
type ISyncNotifier interface {
	Publish(ctx context.Context, event model.SyncEvent) error
}
