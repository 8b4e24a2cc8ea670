package http

import (
	"net/http"
	"strconv"

	"ytcurator/domain/dto"
	"ytcurator/usecase"

	"github.com/gin-gonic/gin"
)

// ILibraryHandler defines the HTTP handlers over the aggregated collections
type ILibraryHandler interface {
	GetSubscriptions(ctx *gin.Context)
	GetArtists(ctx *gin.Context)
	GetPlaylists(ctx *gin.Context)
	GetMusicPlaylists(ctx *gin.Context)
	GetLatestVideos(ctx *gin.Context)
	GetShorts(ctx *gin.Context)
	ForceSync(ctx *gin.Context)
	ClearCache(ctx *gin.Context)
}

type LibraryHandler struct {
	library usecase.ILibraryUseCase
}

func NewLibraryHandler(library usecase.ILibraryUseCase) ILibraryHandler {
	return &LibraryHandler{library: library}
}

// GetSubscriptions handles GET /api/subscriptions
func (h *LibraryHandler) GetSubscriptions(ctx *gin.Context) {
	channels, err := h.library.GetSubscriptions(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "getSubscriptions", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(channels))
}

// GetArtists handles GET /api/artists
func (h *LibraryHandler) GetArtists(ctx *gin.Context) {
	channels, err := h.library.GetArtists(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "getArtists", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(channels))
}

// GetPlaylists handles GET /api/playlists
func (h *LibraryHandler) GetPlaylists(ctx *gin.Context) {
	playlists, err := h.library.GetPlaylists(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "getPlaylists", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(playlists))
}

// GetMusicPlaylists handles GET /api/playlists/music
func (h *LibraryHandler) GetMusicPlaylists(ctx *gin.Context) {
	playlists, err := h.library.GetMusicPlaylists(ctx.Request.Context())
	if err != nil {
		respondError(ctx, "getMusicPlaylists", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(playlists))
}

// GetLatestVideos handles GET /api/videos/latest?limit=
func (h *LibraryHandler) GetLatestVideos(ctx *gin.Context) {
	videos, err := h.library.GetLatestVideos(ctx.Request.Context(), limitParam(ctx))
	if err != nil {
		respondError(ctx, "getLatestVideos", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(videos))
}

// GetShorts handles GET /api/videos/shorts?limit=
func (h *LibraryHandler) GetShorts(ctx *gin.Context) {
	videos, err := h.library.GetShorts(ctx.Request.Context(), limitParam(ctx))
	if err != nil {
		respondError(ctx, "getShorts", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.OK(videos))
}

// ForceSync handles POST /api/sync
func (h *LibraryHandler) ForceSync(ctx *gin.Context) {
	if err := h.library.ForceSyncAll(ctx.Request.Context()); err != nil {
		respondError(ctx, "forceSyncAll", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.Done())
}

// ClearCache handles POST /api/cache/clear
func (h *LibraryHandler) ClearCache(ctx *gin.Context) {
	h.library.ClearCache(ctx.Request.Context())
	ctx.JSON(http.StatusOK, dto.Done())
}

// limitParam reads ?limit=; a missing or malformed value yields 0 (the use case default)
func limitParam(ctx *gin.Context) int {
	raw := ctx.Query("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
