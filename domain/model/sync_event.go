package model

import "time"

// Sync stages, in the order a full resync runs them
const (
	SyncStageSubscriptions = "subscriptions"
	SyncStageLatestVideos  = "latest_videos"
	SyncStagePlaylists     = "playlists"
)

// Sync statuses
const (
	SyncStatusStarted   = "started"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// SyncEvent reports the progress of one stage of a forced resync
type SyncEvent struct {
	RunID  string    `json:"run_id"`
	Stage  string    `json:"stage"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}
