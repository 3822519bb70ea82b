package http

import (
	"context"
	"net/http"
)

// Pinger verifies connectivity to the backing store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	// DB is pinged on every health request.
	DB Pinger
}

// Health handles GET /api/health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := "up"
	code := http.StatusOK
	if err := h.DB.PingContext(r.Context()); err != nil {
		database = "down"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"success":  code == http.StatusOK,
		"database": database,
	})
}
