package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CacheProbe reports whether the persistent cache is reachable
type CacheProbe interface {
	CacheAvailable() bool
}

type IHealthHandler interface {
	Healthz(ctx *gin.Context)
}

type HealthHandler struct {
	cache CacheProbe
}

func NewHealthHandler(cache CacheProbe) IHealthHandler {
	return &HealthHandler{cache: cache}
}

// Healthz returns OK for health checks along with the cache state
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "cache": h.cache.CacheAvailable()})
}
