package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/genwork/internal/infrastructure/redis"
	"github.com/yourorg/genwork/pkg/database"
)

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	db        *database.ConnectionPool
	redis     *redis.Client
	logger    *slog.Logger
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.ConnectionPool, redisClient *redis.Client, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// HealthResponse is the liveness check body
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// ReadinessResponse is the readiness check body
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /health. Returns 200 if the server is running.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready handles GET /ready. Returns 200 only if the database (and Redis,
// when configured) answer a ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if err := h.db.Health(ctx); err != nil {
		checks["database"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	} else {
		checks["redis"] = "not configured"
	}

	status := "ready"
	statusCode := http.StatusOK
	if !healthy {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		h.logger.Warn("readiness check failed",
			slog.String("database", checks["database"]),
			slog.String("redis", checks["redis"]),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ReadinessResponse{Status: status, Checks: checks})
}
