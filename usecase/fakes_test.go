package usecase

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"ytcurator/domain/dto"
	"ytcurator/domain/model"

	"github.com/stretchr/testify/mock"
)

// fakeYouTube serves canned data and records the order of remote calls
type fakeYouTube struct {
	mu    sync.Mutex
	calls []string

	subscriptionPages []dto.Page[model.Channel]
	playlistPages     []dto.Page[model.Playlist]
	subscriptionsErr  error
	playlistsErr      error
	// blocks ListSubscriptions until closed when set
	subscriptionsGate chan struct{}
	subscriptionCalls int32

	channelVideos   map[string][]model.Video
	channelErrs     map[string]error
	playlistItems   map[string][]string
	playlistErrs    map[string]error
	categories      map[string]string
	categoriesErr   error
	searchQueries   []dto.ChannelVideoQuery
	categoryLookups [][]string
}

func (f *fakeYouTube) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeYouTube) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func pageIndex(token string) int {
	if token == "" {
		return 0
	}
	i, _ := strconv.Atoi(token)
	return i
}

func (f *fakeYouTube) ListSubscriptions(ctx context.Context, pageToken string) (*dto.Page[model.Channel], error) {
	atomic.AddInt32(&f.subscriptionCalls, 1)
	f.record("subscriptions.list")
	if f.subscriptionsGate != nil {
		<-f.subscriptionsGate
	}
	if f.subscriptionsErr != nil {
		return nil, f.subscriptionsErr
	}
	if len(f.subscriptionPages) == 0 {
		return &dto.Page[model.Channel]{}, nil
	}
	page := f.subscriptionPages[pageIndex(pageToken)]
	page.Items = append([]model.Channel(nil), page.Items...)
	return &page, nil
}

func (f *fakeYouTube) ListMyPlaylists(ctx context.Context, pageToken string) (*dto.Page[model.Playlist], error) {
	f.record("playlists.list")
	if f.playlistsErr != nil {
		return nil, f.playlistsErr
	}
	if len(f.playlistPages) == 0 {
		return &dto.Page[model.Playlist]{}, nil
	}
	page := f.playlistPages[pageIndex(pageToken)]
	page.Items = append([]model.Playlist(nil), page.Items...)
	return &page, nil
}

func (f *fakeYouTube) SearchChannelVideos(ctx context.Context, query dto.ChannelVideoQuery) ([]model.Video, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "search.list:"+query.ChannelID+":"+query.Order)
	f.searchQueries = append(f.searchQueries, query)
	f.mu.Unlock()
	if err := f.channelErrs[query.ChannelID]; err != nil {
		return nil, err
	}
	videos := f.channelVideos[query.ChannelID]
	if query.MaxResults > 0 && int64(len(videos)) > query.MaxResults {
		videos = videos[:query.MaxResults]
	}
	return append([]model.Video(nil), videos...), nil
}

func (f *fakeYouTube) ListPlaylistVideoIDs(ctx context.Context, playlistID string, maxResults int64) ([]string, error) {
	f.record("playlistItems.list:" + playlistID)
	if err := f.playlistErrs[playlistID]; err != nil {
		return nil, err
	}
	ids := f.playlistItems[playlistID]
	if maxResults > 0 && int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

func (f *fakeYouTube) GetVideoCategories(ctx context.Context, ids []string) (map[string]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, "videos.list")
	f.categoryLookups = append(f.categoryLookups, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	out := make(map[string]string)
	for _, id := range ids {
		if c, ok := f.categories[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type MockTokenGate struct {
	mock.Mock
}

func (m *MockTokenGate) EnsureValidToken(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.SyncEvent
}

func (r *recordingNotifier) Publish(_ context.Context, event model.SyncEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}
