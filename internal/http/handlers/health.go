package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping Pinger
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Koinonia API running"})
}

// Health reports database reachability.
func (h *HealthHandler) Health(ctx *gin.Context) {
	if h.ping != nil {
		cctx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
		defer cancel()

		if err := h.ping(cctx); err != nil {
			slog.ErrorContext(ctx.Request.Context(), "health check failed", "err", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "db": "error"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}
