package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/openlearn-hub-api/internal/service"
	"github.com/noah-isme/openlearn-hub-api/pkg/response"
)

type catalogSizer interface {
	CatalogSize() int
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	catalog catalogSizer
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, catalog catalogSizer) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, catalog: catalog}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness checks.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether a catalog is loaded.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "catalog not loaded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "resources": h.catalog.CatalogSize()})
}

// Stats godoc
// @Summary Service counters
// @Tags System
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *MetricsHandler) Stats(c *gin.Context) {
	stats := h.metrics.Snapshot()
	if h.catalog != nil {
		stats.CatalogSize = h.catalog.CatalogSize()
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
