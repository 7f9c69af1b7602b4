package handlers

import (
	"net/http"

	"github.com/pysugar/channel-onboard/internal/logging"
	"github.com/pysugar/channel-onboard/internal/onboard"
)

const authorizedMessage = "Authorization successful! You can now manage YouTube channels."

// OAuthURLHandler returns the consent URL.
func OAuthURLHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := svc.AuthURL()
		if err != nil {
			logging.Printf(r.Context(), "❌ Error generating auth URL: %v", err)
			writeServiceError(w, err, "Failed to generate auth URL", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"authUrl": authURL})
	}
}

// OAuthCallbackHandler exchanges a code pasted into the dashboard.
func OAuthCallbackHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code string `json:"code"`
		}
		if err := decodeBody(r, &req); err != nil || req.Code == "" {
			writeError(w, http.StatusBadRequest, "Authorization code is required")
			return
		}
		authorize(w, r, svc, req.Code)
	}
}

// OAuthRedirectHandler is the browser redirect target of the consent flow.
// The state parameter must match the one embedded in the consent URL.
func OAuthRedirectHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if e := q.Get("error"); e != "" {
			writeError(w, http.StatusBadRequest, "Authorization denied: "+e)
			return
		}
		if !svc.ValidState(q.Get("state")) {
			writeError(w, http.StatusBadRequest, "Invalid OAuth state")
			return
		}
		code := q.Get("code")
		if code == "" {
			writeError(w, http.StatusBadRequest, "Authorization code is required")
			return
		}
		authorize(w, r, svc, code)
	}
}

func authorize(w http.ResponseWriter, r *http.Request, svc *onboard.Service, code string) {
	if err := svc.Authorize(r.Context(), code); err != nil {
		logging.Printf(r.Context(), "❌ Error during OAuth callback: %v", err)
		writeServiceError(w, err, "", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": authorizedMessage,
	})
}

// OAuthStatusHandler reports whether a credential is held.
func OAuthStatusHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorized := svc.AuthStatus()
		msg := "OAuth2 authorization required"
		if authorized {
			msg = "OAuth2 is configured and ready"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"isAuthorized": authorized,
			"message":      msg,
		})
	}
}
