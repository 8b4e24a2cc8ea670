package realtime

import (
	"context"
	"errors"

	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"
)

// Fanout delivers each sync event to every configured notifier.
// A failing notifier does not stop delivery to the others.
type Fanout struct {
	notifiers []repository.ISyncNotifier
}

func NewFanout(notifiers ...repository.ISyncNotifier) *Fanout {
	f := &Fanout{}
	for _, n := range notifiers {
		f.Add(n)
	}
	return f
}

// Add appends n; nil notifiers are ignored
func (f *Fanout) Add(n repository.ISyncNotifier) {
	if n == nil {
		return
	}
	f.notifiers = append(f.notifiers, n)
}

func (f *Fanout) Len() int {
	return len(f.notifiers)
}

func (f *Fanout) Publish(ctx context.Context, event model.SyncEvent) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.Publish(ctx, event); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":  err,
				"run_id": event.RunID,
				"stage":  event.Stage,
			}).Warn("Sync notifier failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
