package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/finvoice/backend/internal/infrastructure/persistence"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version}
}

// HealthStatus is the health check response shape
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// Health reports liveness plus a database ping
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:   "ok",
		Version:  h.version,
		Database: "ok",
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(status))
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status))
}
