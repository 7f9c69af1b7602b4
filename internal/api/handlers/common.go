package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pysugar/channel-onboard/internal/onboard"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}

// writeServiceError maps service errors to status codes. Validation and
// not-found errors carry a user-facing message; anything else is reported
// as fallback (or the error text when fallback is empty) with the cause in
// details. Extra fields are merged into the body.
func writeServiceError(w http.ResponseWriter, err error, fallback string, extra map[string]interface{}) {
	body := map[string]interface{}{}
	for k, v := range extra {
		body[k] = v
	}

	var status int
	switch {
	case errors.Is(err, onboard.ErrValidation):
		status = http.StatusBadRequest
		body["error"] = err.Error()
	case errors.Is(err, onboard.ErrNotFound):
		status = http.StatusNotFound
		body["error"] = err.Error()
	default:
		status = http.StatusInternalServerError
		if fallback != "" {
			body["error"] = fallback
			body["details"] = err.Error()
		} else {
			body["error"] = err.Error()
		}
	}
	writeJSON(w, status, body)
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
