package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ytcurator/domain/dto"
	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Cache namespaces and keys. Keys are fixed per collection.
const (
	NamespaceChannels  = "channels"
	NamespaceVideos    = "videos"
	NamespacePlaylists = "playlists"

	KeySubscriptions = "subscriptions"
	KeyAllPlaylists  = "all"
	KeyLatestVideos  = "latest"
	KeyShorts        = "shorts"
)

const (
	DefaultTTL             = 30 * time.Minute
	SharedFetchTimeout     = 2 * time.Minute
	DefaultVideoLimit      = 50
	RecentChannelLimit     = 20
	RecentVideosPerChannel = 5
	recentConcurrency      = 4
)

// TokenGate guarantees a fresh credential before a remote fetch
type TokenGate interface {
	EnsureValidToken(ctx context.Context) error
}

// ILibraryUseCase serves the aggregated collections of the signed-in account
type ILibraryUseCase interface {
	GetSubscriptions(ctx context.Context) ([]model.Channel, error)
	GetArtists(ctx context.Context) ([]model.Channel, error)
	GetPlaylists(ctx context.Context) ([]model.Playlist, error)
	GetMusicPlaylists(ctx context.Context) ([]model.Playlist, error)
	GetLatestVideos(ctx context.Context, limit int) ([]model.Video, error)
	GetShorts(ctx context.Context, limit int) ([]model.Video, error)
	ForceSyncAll(ctx context.Context) error
	ClearCache(ctx context.Context)
	CacheAvailable() bool
}

// LibraryUseCase implements cache-aside aggregation over the YouTube client
type LibraryUseCase struct {
	youtube    repository.IYouTube
	cache      repository.ICacheStore
	gate       TokenGate
	classifier *Classifier
	notifier   repository.ISyncNotifier
	ttl        time.Duration
	flight     singleflight.Group

	// generation is bumped by ClearCache; fetches that straddle a bump do not write back
	generation atomic.Uint64
	clearMu    sync.RWMutex
}

// NewLibraryUseCase creates the use case; ttl <= 0 uses DefaultTTL
func NewLibraryUseCase(youtube repository.IYouTube, cache repository.ICacheStore, gate TokenGate, ttl time.Duration) *LibraryUseCase {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LibraryUseCase{
		youtube:    youtube,
		cache:      cache,
		gate:       gate,
		classifier: NewClassifier(youtube),
		notifier:   noopNotifier{},
		ttl:        ttl,
	}
}

// WithNotifier sets the receiver of resync progress events (fluent)
func (u *LibraryUseCase) WithNotifier(notifier repository.ISyncNotifier) *LibraryUseCase {
	if notifier != nil {
		u.notifier = notifier
	}
	return u
}

// cached returns the live cache entry or runs load once per key, however many callers are waiting.
// force skips the cache reads. The fetch runs detached from any one caller: a caller that gives up
// returns its own ctx error while the others keep waiting. A result fetched across a ClearCache is
// returned but not stored.
func cached[T any](ctx context.Context, u *LibraryUseCase, namespace, key string, force bool, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if !force && u.cache.Get(ctx, namespace, key, &out) {
		return out, nil
	}
	ch := u.flight.DoChan(flightKey(namespace, key), func() (interface{}, error) {
		generation := u.generation.Load()
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedFetchTimeout)
		defer cancel()

		var hit T
		if !force && u.cache.Get(fetchCtx, namespace, key, &hit) {
			return hit, nil
		}
		fresh, err := load(fetchCtx)
		if err != nil {
			return nil, err
		}
		u.store(fetchCtx, generation, namespace, key, fresh)
		return fresh, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if res.Shared {
			logger.GetLogger().WithField("key", flightKey(namespace, key)).Debug("Joined in-flight fetch")
		}
		return res.Val.(T), nil
	}
}

// store writes value unless the cache was cleared after generation was read
func (u *LibraryUseCase) store(ctx context.Context, generation uint64, namespace, key string, value interface{}) {
	u.clearMu.RLock()
	defer u.clearMu.RUnlock()
	if u.generation.Load() != generation {
		logger.GetLogger().WithField("key", flightKey(namespace, key)).Debug("Discarding result fetched before cache clear")
		return
	}
	u.cache.Set(ctx, namespace, key, value, u.ttl)
}

func flightKey(namespace, key string) string {
	return namespace + "/" + key
}

// GetSubscriptions returns every subscribed channel with its music flag
func (u *LibraryUseCase) GetSubscriptions(ctx context.Context) ([]model.Channel, error) {
	return cached(ctx, u, NamespaceChannels, KeySubscriptions, false, u.loadSubscriptions)
}

func (u *LibraryUseCase) loadSubscriptions(ctx context.Context) ([]model.Channel, error) {
	if err := u.gate.EnsureValidToken(ctx); err != nil {
		return nil, err
	}
	channels, err := FetchAll(ctx, u.youtube.ListSubscriptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	if err := u.classifier.ClassifyChannels(ctx, channels); err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("count", len(channels)).Info("Subscriptions fetched")
	return channels, nil
}

// GetArtists returns the subscriptions classified as music
func (u *LibraryUseCase) GetArtists(ctx context.Context) ([]model.Channel, error) {
	channels, err := u.GetSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return model.FilterMusicChannels(channels), nil
}

// GetPlaylists returns every playlist of the account with its music flag
func (u *LibraryUseCase) GetPlaylists(ctx context.Context) ([]model.Playlist, error) {
	return cached(ctx, u, NamespacePlaylists, KeyAllPlaylists, false, u.loadPlaylists)
}

func (u *LibraryUseCase) loadPlaylists(ctx context.Context) ([]model.Playlist, error) {
	if err := u.gate.EnsureValidToken(ctx); err != nil {
		return nil, err
	}
	playlists, err := FetchAll(ctx, u.youtube.ListMyPlaylists)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	if err := u.classifier.ClassifyPlaylists(ctx, playlists); err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("count", len(playlists)).Info("Playlists fetched")
	return playlists, nil
}

// GetMusicPlaylists returns the playlists classified as music
func (u *LibraryUseCase) GetMusicPlaylists(ctx context.Context) ([]model.Playlist, error) {
	playlists, err := u.GetPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	return model.FilterMusicPlaylists(playlists), nil
}

// GetLatestVideos returns the newest uploads across subscriptions; limit <= 0 means 50.
// The result is cached under one key whatever the limit.
func (u *LibraryUseCase) GetLatestVideos(ctx context.Context, limit int) ([]model.Video, error) {
	if limit <= 0 {
		limit = DefaultVideoLimit
	}
	return cached(ctx, u, NamespaceVideos, KeyLatestVideos, false, u.recentLoader(limit, ""))
}

// GetShorts is GetLatestVideos restricted to short-form uploads
func (u *LibraryUseCase) GetShorts(ctx context.Context, limit int) ([]model.Video, error) {
	if limit <= 0 {
		limit = DefaultVideoLimit
	}
	return cached(ctx, u, NamespaceVideos, KeyShorts, false, u.recentLoader(limit, "short"))
}

func (u *LibraryUseCase) recentLoader(limit int, duration string) func(ctx context.Context) ([]model.Video, error) {
	return func(ctx context.Context) ([]model.Video, error) {
		return u.collectRecent(ctx, limit, duration)
	}
}

func (u *LibraryUseCase) collectRecent(ctx context.Context, limit int, duration string) ([]model.Video, error) {
	if err := u.gate.EnsureValidToken(ctx); err != nil {
		return nil, err
	}
	channels, err := u.GetSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(channels) > RecentChannelLimit {
		channels = channels[:RecentChannelLimit]
	}

	perChannel := make([][]model.Video, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(recentConcurrency)
	for i, ch := range channels {
		g.Go(func() error {
			videos, err := u.youtube.SearchChannelVideos(gctx, dto.ChannelVideoQuery{
				ChannelID:  ch.ID,
				MaxResults: RecentVideosPerChannel,
				Order:      "date",
				Duration:   duration,
			})
			if err != nil {
				return skip(err, "channel_id", ch.ID, "Skipping channel videos")
			}
			perChannel[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	videos := make([]model.Video, 0, len(channels)*RecentVideosPerChannel)
	for _, vs := range perChannel {
		videos = append(videos, vs...)
	}
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})
	if len(videos) > limit {
		videos = videos[:limit]
	}
	u.enrichCategories(ctx, videos)
	return videos, nil
}

// enrichCategories fills CategoryID in place; failures leave categories empty
func (u *LibraryUseCase) enrichCategories(ctx context.Context, videos []model.Video) {
	if len(videos) == 0 {
		return
	}
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	categories, err := u.youtube.GetVideoCategories(ctx, ids)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Video category enrichment failed")
		return
	}
	for i := range videos {
		videos[i].CategoryID = categories[videos[i].ID]
	}
}

// CacheAvailable reports whether a cache backend is connected
func (u *LibraryUseCase) CacheAvailable() bool {
	return u.cache.IsAvailable()
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, model.SyncEvent) error { return nil }
