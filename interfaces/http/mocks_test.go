package http

import (
	"context"

	"ytcurator/domain/dto"
	"ytcurator/domain/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockLibraryUseCase struct {
	mock.Mock
}

func (m *MockLibraryUseCase) GetSubscriptions(ctx context.Context) ([]model.Channel, error) {
	args := m.Called(ctx)
	channels, _ := args.Get(0).([]model.Channel)
	return channels, args.Error(1)
}

func (m *MockLibraryUseCase) GetArtists(ctx context.Context) ([]model.Channel, error) {
	args := m.Called(ctx)
	channels, _ := args.Get(0).([]model.Channel)
	return channels, args.Error(1)
}

func (m *MockLibraryUseCase) GetPlaylists(ctx context.Context) ([]model.Playlist, error) {
	args := m.Called(ctx)
	playlists, _ := args.Get(0).([]model.Playlist)
	return playlists, args.Error(1)
}

func (m *MockLibraryUseCase) GetMusicPlaylists(ctx context.Context) ([]model.Playlist, error) {
	args := m.Called(ctx)
	playlists, _ := args.Get(0).([]model.Playlist)
	return playlists, args.Error(1)
}

func (m *MockLibraryUseCase) GetLatestVideos(ctx context.Context, limit int) ([]model.Video, error) {
	args := m.Called(ctx, limit)
	videos, _ := args.Get(0).([]model.Video)
	return videos, args.Error(1)
}

func (m *MockLibraryUseCase) GetShorts(ctx context.Context, limit int) ([]model.Video, error) {
	args := m.Called(ctx, limit)
	videos, _ := args.Get(0).([]model.Video)
	return videos, args.Error(1)
}

func (m *MockLibraryUseCase) ForceSyncAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLibraryUseCase) ClearCache(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockLibraryUseCase) CacheAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Status(ctx context.Context) dto.AuthStatus {
	args := m.Called(ctx)
	return args.Get(0).(dto.AuthStatus)
}

func (m *MockAuthUseCase) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockAuthUseCase) CompleteLogin(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockAuthUseCase) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
