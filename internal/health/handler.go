// Package health serves the liveness endpoint used by load balancers.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/uptrace/bun"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/utils"
)

type Handler struct {
	DB      *bun.DB
	Redis   *redis.Client // nil when the cart lock is disabled
	Logger  *logger.Logger
	Timeout time.Duration
}

func NewHandler(db *bun.DB, rdb *redis.Client, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{DB: db, Redis: rdb, Logger: log, Timeout: 2 * time.Second}
}

type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	status := Status{Status: "ok", Database: "ok"}
	if err := h.DB.PingContext(ctx); err != nil {
		h.Logger.Error("HEALTH", "database ping failed: "+err.Error())
		status.Status, status.Database = "unavailable", "down"
	}
	if h.Redis != nil {
		status.Redis = "ok"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			h.Logger.Error("HEALTH", "redis ping failed: "+err.Error())
			status.Status, status.Redis = "unavailable", "down"
		}
	}

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, code, status)
}
