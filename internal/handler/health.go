package handler

import (
	"context"
	"net/http"
	"time"

	"storefront-be/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db       Pinger
	registry *metrics.Registry
}

func NewHealthHandler(db Pinger, registry *metrics.Registry) *HealthHandler {
	return &HealthHandler{db: db, registry: registry}
}

func (h *HealthHandler) Check(c *gin.Context) {
	status, code := "ok", http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	body := gin.H{"status": status}
	if h.registry != nil {
		body["counters"] = h.registry.Snapshot()
	}
	c.JSON(code, body)
}
