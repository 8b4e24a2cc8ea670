package model

import "time"

// MusicCategoryID is the YouTube video category id for "Music".
const MusicCategoryID = "10"

// Channel represents a subscribed YouTube channel
type Channel struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsMusic      bool   `json:"is_music"`
}

// Video represents a YouTube video surfaced in the aggregated feeds
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	PublishedAt  time.Time `json:"published_at"`
	CategoryID   string    `json:"category_id"`
}

// Playlist represents a playlist owned by the authenticated user
type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	ItemCount    int64  `json:"item_count"`
	IsMusic      bool   `json:"is_music"`
}

// FilterMusicChannels returns the channels classified as music (artists)
func FilterMusicChannels(channels []Channel) []Channel {
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.IsMusic {
			out = append(out, ch)
		}
	}
	return out
}

// FilterMusicPlaylists returns the playlists classified as music
func FilterMusicPlaylists(playlists []Playlist) []Playlist {
	out := make([]Playlist, 0, len(playlists))
	for _, pl := range playlists {
		if pl.IsMusic {
			out = append(out, pl)
		}
	}
	return out
}
