package repository

import (
	"context"

	"ytcurator/domain/dto"
	"ytcurator/domain/model"
)

// IYouTube defines the read-only calls made against the YouTube Data API
type IYouTube interface {
	// ListSubscriptions returns one page of the authenticated user's subscriptions
	ListSubscriptions(ctx context.Context, pageToken string) (*dto.Page[model.Channel], error)
	// ListMyPlaylists returns one page of the authenticated user's playlists
	ListMyPlaylists(ctx context.Context, pageToken string) (*dto.Page[model.Playlist], error)
	// SearchChannelVideos lists videos uploaded by a channel
	SearchChannelVideos(ctx context.Context, query dto.ChannelVideoQuery) ([]model.Video, error)
	// ListPlaylistVideoIDs returns up to maxResults video ids from a playlist
	ListPlaylistVideoIDs(ctx context.Context, playlistID string, maxResults int64) ([]string, error)
	// GetVideoCategories maps video id to category id; unknown ids are absent
	GetVideoCategories(ctx context.Context, videoIDs []string) (map[string]string, error)
}
