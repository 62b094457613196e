package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	. "todoservice/internal/adapter/http/helper"
	"todoservice/internal/core/model/response"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		SendServiceUnavailable(c, "Database unavailable")
		return
	}

	c.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}
