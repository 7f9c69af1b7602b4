package handlers

import (
	"net/http"

	"github.com/pysugar/channel-onboard/internal/logging"
	"github.com/pysugar/channel-onboard/internal/onboard"
)

// OnboardHandler accepts the intake form.
func OnboardHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub onboard.Submission
		if err := decodeBody(r, &sub); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		res, err := svc.Submit(r.Context(), sub)
		if err != nil {
			logging.Printf(r.Context(), "❌ Error during onboarding: %v", err)
			writeServiceError(w, err, "Failed to process onboarding request", nil)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
