package api

import (
	"context"
	"net/http"

	"microblog/internal/api/respond"
	"microblog/internal/store"
)

// HealthPinger is implemented by stores that can verify connectivity.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}

// HealthHandler reports service and store liveness.
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(s store.Store) *HealthHandler { return &HealthHandler{store: s} }

// CheckHealth GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(HealthPinger); ok {
		if err := p.HealthPing(r.Context()); err != nil {
			respond.WriteError(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "healthy"})
}
