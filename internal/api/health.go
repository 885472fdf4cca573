package api

import (
	"net/http"
	"time"

	"github.com/memvault/memory-vault/internal/api/respond"
	"github.com/memvault/memory-vault/internal/store"
)

// HealthHandler serves liveness and database connectivity probes. Probes run
// on demand; there is no background health checking.
type HealthHandler struct {
	pinger store.HealthPinger
}

func NewHealthHandler(pinger store.HealthPinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// CheckHealth handles GET /api/health
// Always returns 200; the body reports status.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckStorageHealth handles GET /api/health/db
// Pings the backing database; 503 when unreachable.
func (h *HealthHandler) CheckStorageHealth(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "unknown"})
		return
	}
	if err := h.pinger.HealthPing(r.Context()); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "database unreachable: "+err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
