package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianvalmo/buscacursos-api/internal/cache"
	"github.com/cristianvalmo/buscacursos-api/internal/dto"
	"github.com/cristianvalmo/buscacursos-api/pkg/response"
)

type cacheMaintainer interface {
	ClearCache(ctx context.Context) (int, error)
	CacheStats(ctx context.Context) cache.Stats
}

// HealthHandler exposes liveness and cache maintenance endpoints.
type HealthHandler struct {
	maintainer cacheMaintainer
	version    string
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(maintainer cacheMaintainer, version string) *HealthHandler {
	return &HealthHandler{maintainer: maintainer, version: version}
}

// Health godoc
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
//
// The status never depends on cache or upstream state; the cache stats in
// the payload are informational.
func (h *HealthHandler) Health(c *gin.Context) {
	payload := dto.HealthResponse{Status: "healthy", Version: h.version}
	if h.maintainer != nil {
		payload.Cache = h.maintainer.CacheStats(c.Request.Context())
	}
	c.JSON(http.StatusOK, payload)
}

// ClearCache godoc
// @Summary Flush the result cache
// @Tags Health
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cache/clear [post]
func (h *HealthHandler) ClearCache(c *gin.Context) {
	count, err := h.maintainer.ClearCache(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.CacheClearResponse{Evicted: count},
		fmt.Sprintf("cache cleared: %d entries removed", count), nil)
}
