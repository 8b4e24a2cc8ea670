package usecase

import (
	"context"

	"ytcurator/domain/apperror"
	"ytcurator/domain/dto"
	"ytcurator/domain/model"
	"ytcurator/domain/repository"
	"ytcurator/infrastructure/logger"

	"golang.org/x/sync/errgroup"
)

// SampleSize is the number of items inspected per channel or playlist
const SampleSize = 10

const classifyConcurrency = 4

// Classifier flags channels and playlists whose sampled items are mostly in the Music category
type Classifier struct {
	youtube repository.IYouTube
}

func NewClassifier(youtube repository.IYouTube) *Classifier {
	return &Classifier{youtube: youtube}
}

// IsMusicMajority reports a strict majority: 5 of 10 is not music, 6 of 10 is
func IsMusicMajority(musicCount, sampleSize int) bool {
	return sampleSize > 0 && musicCount*2 > sampleSize
}

// ClassifyChannels sets IsMusic in place. A channel failing with an upstream error is logged and keeps
// its current flag; an auth error aborts the whole pass and is returned.
func (c *Classifier) ClassifyChannels(ctx context.Context, channels []model.Channel) error {
	return c.each(ctx, len(channels), func(ctx context.Context, i int) error {
		videos, err := c.youtube.SearchChannelVideos(ctx, dto.ChannelVideoQuery{ChannelID: channels[i].ID, MaxResults: SampleSize})
		if err != nil {
			return skip(err, "channel_id", channels[i].ID, "Channel classification skipped")
		}
		ids := make([]string, 0, len(videos))
		for _, v := range videos {
			ids = append(ids, v.ID)
		}
		isMusic, ok, err := c.sample(ctx, ids, "channel_id", channels[i].ID)
		if ok {
			channels[i].IsMusic = isMusic
		}
		return err
	})
}

// ClassifyPlaylists sets IsMusic in place with the same failure rules as ClassifyChannels
func (c *Classifier) ClassifyPlaylists(ctx context.Context, playlists []model.Playlist) error {
	return c.each(ctx, len(playlists), func(ctx context.Context, i int) error {
		ids, err := c.youtube.ListPlaylistVideoIDs(ctx, playlists[i].ID, SampleSize)
		if err != nil {
			return skip(err, "playlist_id", playlists[i].ID, "Playlist classification skipped")
		}
		isMusic, ok, err := c.sample(ctx, ids, "playlist_id", playlists[i].ID)
		if ok {
			playlists[i].IsMusic = isMusic
		}
		return err
	})
}

// sample returns ok=false when the flag must stay unchanged (empty sample or lookup failure)
func (c *Classifier) sample(ctx context.Context, ids []string, field, id string) (bool, bool, error) {
	if len(ids) == 0 {
		return false, false, nil
	}
	if len(ids) > SampleSize {
		ids = ids[:SampleSize]
	}
	categories, err := c.youtube.GetVideoCategories(ctx, ids)
	if err != nil {
		return false, false, skip(err, field, id, "Category lookup failed during classification")
	}
	music := 0
	for _, vid := range ids {
		if categories[vid] == model.MusicCategoryID {
			music++
		}
	}
	return IsMusicMajority(music, len(ids)), true, nil
}

// skip logs a per-item failure and swallows it unless it is an auth error
func skip(err error, field, id, message string) error {
	if apperror.IsAuth(err) {
		return err
	}
	logger.GetLogger().WithFields(map[string]interface{}{"error": err, field: id}).Warn(message)
	return nil
}

// each runs fn for every index with bounded concurrency; fn writes only its own index.
// The first error cancels the remaining work.
func (c *Classifier) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(classifyConcurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
