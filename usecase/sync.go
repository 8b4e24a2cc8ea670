package usecase

import (
	"context"
	"fmt"
	"time"

	"ytcurator/domain/model"
	"ytcurator/infrastructure/logger"

	"github.com/google/uuid"
)

var allFlightKeys = []string{
	flightKey(NamespaceChannels, KeySubscriptions),
	flightKey(NamespacePlaylists, KeyAllPlaylists),
	flightKey(NamespaceVideos, KeyLatestVideos),
	flightKey(NamespaceVideos, KeyShorts),
}

// ForceSyncAll clears the cache and repopulates subscriptions, then latest videos, then playlists.
// Stages never read the cache, so an entry written by a fetch racing the clear is overwritten.
// Latest videos depend on a fresh subscriptions fetch. The first failing stage aborts the run and
// already-cleared entries stay cleared.
func (u *LibraryUseCase) ForceSyncAll(ctx context.Context) error {
	runID := uuid.NewString()
	log := logger.GetLogger().WithField("run_id", runID)
	log.Info("Force resync started")

	u.ClearCache(ctx)

	stages := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{model.SyncStageSubscriptions, func(ctx context.Context) error {
			_, err := cached(ctx, u, NamespaceChannels, KeySubscriptions, true, u.loadSubscriptions)
			return err
		}},
		{model.SyncStageLatestVideos, func(ctx context.Context) error {
			_, err := cached(ctx, u, NamespaceVideos, KeyLatestVideos, true, u.recentLoader(DefaultVideoLimit, ""))
			return err
		}},
		{model.SyncStagePlaylists, func(ctx context.Context) error {
			_, err := cached(ctx, u, NamespacePlaylists, KeyAllPlaylists, true, u.loadPlaylists)
			return err
		}},
	}

	for _, stage := range stages {
		u.notify(ctx, model.SyncEvent{RunID: runID, Stage: stage.name, Status: model.SyncStatusStarted})
		if err := stage.run(ctx); err != nil {
			u.notify(ctx, model.SyncEvent{RunID: runID, Stage: stage.name, Status: model.SyncStatusFailed, Error: err.Error()})
			log.WithFields(map[string]interface{}{"error": err, "stage": stage.name}).Error("Force resync aborted")
			return fmt.Errorf("resync %s: %w", stage.name, err)
		}
		u.notify(ctx, model.SyncEvent{RunID: runID, Stage: stage.name, Status: model.SyncStatusCompleted})
	}

	log.Info("Force resync completed")
	return nil
}

// ClearCache drops every cached collection and detaches callers from fetches started before the clear
func (u *LibraryUseCase) ClearCache(ctx context.Context) {
	u.clearMu.Lock()
	u.generation.Add(1)
	u.clearMu.Unlock()

	u.cache.ClearAll(ctx)
	for _, key := range allFlightKeys {
		u.flight.Forget(key)
	}
}

func (u *LibraryUseCase) notify(ctx context.Context, event model.SyncEvent) {
	event.At = time.Now().UTC()
	if err := u.notifier.Publish(ctx, event); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "stage": event.Stage}).Warn("Failed to publish sync event")
	}
}
