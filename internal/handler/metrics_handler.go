package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/service"
)

type healthChecker interface {
	Healthy(ctx context.Context) bool
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics  *service.MetricsService
	snapshot healthChecker
}

// NewMetricsHandler constructs a metrics handler. snapshot is the optional Redis mirror.
func NewMetricsHandler(metrics *service.MetricsService, snapshot healthChecker) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, snapshot: snapshot}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness. A configured but unreachable mirror degrades the status
// without failing the probe; the in-memory core keeps serving.
func (h *MetricsHandler) Ready(c *gin.Context) {
	body := gin.H{"status": "ready"}
	if h.snapshot != nil {
		mirror := "up"
		if !h.snapshot.Healthy(c.Request.Context()) {
			mirror = "down"
			body["status"] = "degraded"
		}
		body["snapshot_mirror"] = mirror
	}
	c.JSON(http.StatusOK, body)
}
