package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ytcurator/domain/apperror"
	"ytcurator/domain/dto"
	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/configuration"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// PageSize is the maximum page size accepted by the list endpoints
const PageSize = 50

// Client represents YouTube API client
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	timeout time.Duration
}

// NewYouTubeClient creates a YouTube API client that authorises requests with httpClient
func NewYouTubeClient(ctx context.Context, httpClient *http.Client, cfg configuration.YouTube) (repository.IYouTube, error) {
	service, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return NewClientFromService(service, newLimiter(cfg), cfg.RequestTimeout), nil
}

// NewClientFromService wraps an existing service; a nil limiter disables pacing
func NewClientFromService(service *youtube.Service, limiter *rate.Limiter, timeout time.Duration) *Client {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{service: service, limiter: limiter, timeout: timeout}
}

func newLimiter(cfg configuration.YouTube) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// call paces and bounds a single API request and classifies its failure
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperror.Upstream(err, op+" cancelled")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return classify(err, op)
	}
	return nil
}

func classify(err error, op string) error {
	if apperror.IsAuth(err) {
		return apperror.Auth(err, op+" failed")
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return apperror.Auth(err, op+" failed")
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && isAuthFailure(apiErr) {
		return apperror.Auth(err, op+" failed")
	}
	return apperror.Upstream(err, op+" failed")
}

// isAuthFailure reports a 401, or a 403 whose reason concerns the credential rather than quota
func isAuthFailure(apiErr *googleapi.Error) bool {
	switch apiErr.Code {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		for _, item := range apiErr.Errors {
			if item.Reason == "authError" || item.Reason == "insufficientPermissions" {
				return true
			}
		}
	}
	return false
}

// ListSubscriptions returns one page of the authenticated user's subscriptions
func (c *Client) ListSubscriptions(ctx context.Context, pageToken string) (*dto.Page[model.Channel], error) {
	var response *youtube.SubscriptionListResponse
	err := c.call(ctx, "subscriptions.list", func(ctx context.Context) error {
		call := c.service.Subscriptions.List([]string{"snippet"}).
			Mine(true).
			MaxResults(PageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		var err error
		response, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &dto.Page[model.Channel]{Items: make([]model.Channel, 0, len(response.Items)), NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		channel := model.Channel{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: defaultThumbnail(item.Snippet.Thumbnails),
		}
		if item.Snippet.ResourceId != nil {
			channel.ID = item.Snippet.ResourceId.ChannelId
		}
		page.Items = append(page.Items, channel)
	}
	return page, nil
}

// ListMyPlaylists returns one page of the authenticated user's playlists
func (c *Client) ListMyPlaylists(ctx context.Context, pageToken string) (*dto.Page[model.Playlist], error) {
	var response *youtube.PlaylistListResponse
	err := c.call(ctx, "playlists.list", func(ctx context.Context) error {
		call := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
			Mine(true).
			MaxResults(PageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		var err error
		response, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	page := &dto.Page[model.Playlist]{Items: make([]model.Playlist, 0, len(response.Items)), NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		playlist := model.Playlist{ID: item.Id}
		if item.Snippet != nil {
			playlist.Title = item.Snippet.Title
			playlist.Description = item.Snippet.Description
			playlist.ThumbnailURL = defaultThumbnail(item.Snippet.Thumbnails)
		}
		if item.ContentDetails != nil {
			playlist.ItemCount = item.ContentDetails.ItemCount
		}
		page.Items = append(page.Items, playlist)
	}
	return page, nil
}

// SearchChannelVideos lists videos uploaded by a channel
func (c *Client) SearchChannelVideos(ctx context.Context, query dto.ChannelVideoQuery) ([]model.Video, error) {
	var response *youtube.SearchListResponse
	err := c.call(ctx, "search.list", func(ctx context.Context) error {
		call := c.service.Search.List([]string{"snippet"}).
			ChannelId(query.ChannelID).
			Type("video")
		if query.MaxResults > 0 {
			call = call.MaxResults(query.MaxResults)
		}
		if query.Order != "" {
			call = call.Order(query.Order)
		}
		if query.Duration != "" {
			call = call.VideoDuration(query.Duration)
		}
		var err error
		response, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	videos := make([]model.Video, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
		videos = append(videos, model.Video{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ThumbnailURL: mediumThumbnail(item.Snippet.Thumbnails),
			ChannelID:    item.Snippet.ChannelId,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  publishedAt,
		})
	}
	return videos, nil
}

// ListPlaylistVideoIDs returns up to maxResults video ids from a playlist
func (c *Client) ListPlaylistVideoIDs(ctx context.Context, playlistID string, maxResults int64) ([]string, error) {
	var response *youtube.PlaylistItemListResponse
	err := c.call(ctx, "playlistItems.list", func(ctx context.Context) error {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID)
		if maxResults > 0 {
			call = call.MaxResults(maxResults)
		}
		var err error
		response, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
			ids = append(ids, item.ContentDetails.VideoId)
		}
	}
	return ids, nil
}

// GetVideoCategories maps video id to category id, requesting at most PageSize ids per call
func (c *Client) GetVideoCategories(ctx context.Context, videoIDs []string) (map[string]string, error) {
	categories := make(map[string]string, len(videoIDs))
	for start := 0; start < len(videoIDs); start += PageSize {
		end := start + PageSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		chunk := videoIDs[start:end]

		var response *youtube.VideoListResponse
		err := c.call(ctx, "videos.list", func(ctx context.Context) error {
			var err error
			response, err = c.service.Videos.List([]string{"snippet"}).
				Id(strings.Join(chunk, ",")).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return nil, err
		}
		for _, video := range response.Items {
			if video.Snippet != nil {
				categories[video.Id] = video.Snippet.CategoryId
			}
		}
	}
	return categories, nil
}

func defaultThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil || t.Default == nil {
		return ""
	}
	return t.Default.Url
}

func mediumThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil || t.Medium == nil {
		return ""
	}
	return t.Medium.Url
}
