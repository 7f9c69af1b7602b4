package handlers

import (
	"net/http"
	"time"

	"github.com/pysugar/channel-onboard/internal/version"
)

// HealthHandler reports liveness.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   version.Version,
		})
	}
}
