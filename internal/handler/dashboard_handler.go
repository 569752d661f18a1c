package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-admin-api/internal/middleware"
	"github.com/noah-isme/academy-admin-api/internal/models"
	"github.com/noah-isme/academy-admin-api/pkg/response"
)

type dashboardProvider interface {
	Summary(ctx context.Context) models.DashboardSummary
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// DashboardHandler serves the overview screen.
type DashboardHandler struct {
	dashboard dashboardProvider
	metrics   metricsSnapshotter
}

// NewDashboardHandler constructs DashboardHandler. metrics may be nil.
func NewDashboardHandler(dashboard dashboardProvider, metrics metricsSnapshotter) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, metrics: metrics}
}

// Summary godoc
// @Summary Dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary := h.dashboard.Summary(c.Request.Context())
	if h.metrics != nil {
		middleware.SetMeta(c, "system", h.metrics.Snapshot())
	}
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}
