package server

import (
	"time"

	httpHandler "ytcurator/interfaces/http"
	"ytcurator/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Library httpHandler.ILibraryHandler
	Auth    httpHandler.IAuthHandler
	Health  httpHandler.IHealthHandler
	// SyncStream serves the SSE feed of resync events
	SyncStream gin.HandlerFunc
}

func InitiateRouter(h Handlers, allowedOrigins []string, secretKey string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", h.Health.Healthz)

	auth := router.Group("/auth")
	{
		auth.GET("/status", h.Auth.Status)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/youtube", h.Auth.GetAuthURL)
		auth.GET("/youtube/callback", h.Auth.HandleCallback)
	}

	api := router.Group("/api")
	api.Use(middleware.Auth(secretKey))
	{
		api.GET("/subscriptions", h.Library.GetSubscriptions)
		api.GET("/artists", h.Library.GetArtists)
		api.GET("/playlists", h.Library.GetPlaylists)
		api.GET("/playlists/music", h.Library.GetMusicPlaylists)
		api.GET("/videos/latest", h.Library.GetLatestVideos)
		api.GET("/videos/shorts", h.Library.GetShorts)
		api.POST("/sync", h.Library.ForceSync)
		api.POST("/cache/clear", h.Library.ClearCache)
		if h.SyncStream != nil {
			api.GET("/sync/stream", h.SyncStream)
		}
	}

	return router
}
