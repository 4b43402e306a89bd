package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sistema-escolar/internal/service"
	appErrors "github.com/noah-isme/sistema-escolar/pkg/errors"
	"github.com/noah-isme/sistema-escolar/pkg/response"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	store   Pinger
	mode    string
}

// NewMetricsHandler constructs a metrics handler. mode names the active storage
// backend in readiness responses.
func NewMetricsHandler(metrics *service.MetricsService, store Pinger, mode string) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, store: store, mode: mode}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} response.Envelope
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			response.Error(c, appErrors.Unavailable(err, "Banco de dados indisponível ("+h.mode+")"))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "database": h.mode})
}
