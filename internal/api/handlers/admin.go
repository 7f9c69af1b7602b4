package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pysugar/channel-onboard/internal/db/models"
	"github.com/pysugar/channel-onboard/internal/journal"
	"github.com/pysugar/channel-onboard/internal/logging"
	"github.com/pysugar/channel-onboard/internal/onboard"
	"github.com/pysugar/channel-onboard/internal/youtube"
)

// PendingChannelsHandler lists every client for the admin dashboard.
func PendingChannelsHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channels, err := svc.PendingChannels(r.Context())
		if err != nil {
			logging.Printf(r.Context(), "❌ Error fetching pending channels: %v", err)
			writeServiceError(w, err, "Failed to fetch pending channels", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"channels": channels})
	}
}

type setupChannelRequest struct {
	ClientID         string `json:"clientId"`
	YouTubeChannelID string `json:"youtubeChannelId"`
}

// SetupChannelHandler attaches and provisions a manually created channel.
func SetupChannelHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setupChannelRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		out, err := svc.SetupChannel(r.Context(), req.ClientID, req.YouTubeChannelID)
		if err != nil {
			logging.Printf(r.Context(), "❌ Error setting up channel: %v", err)
			var extra map[string]interface{}
			if errors.Is(err, youtube.ErrProvisioning) || out.Updates != (youtube.Updates{}) {
				extra = map[string]interface{}{"updates": out.Updates}
			}
			writeServiceError(w, err, "", extra)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"channelId":  out.ChannelID,
			"channelUrl": out.ChannelURL,
			"updates":    out.Updates,
		})
	}
}

// ChannelInfoHandler returns live channel details.
func ChannelInfoHandler(svc *onboard.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID := chi.URLParam(r, "channelId")
		channel, err := svc.ChannelInfo(r.Context(), channelID)
		if err != nil {
			logging.Printf(r.Context(), "❌ Error fetching channel info: %v", err)
			writeServiceError(w, err, "Failed to fetch channel information", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"channel": channel})
	}
}

const defaultActivityLimit = 50

// ActivityHandler returns journal entries, newest first. With clientId it
// returns that client's whole timeline, oldest first.
func ActivityHandler(rec *journal.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultActivityLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = n
		}
		kind := r.URL.Query().Get("kind")
		clientID := r.URL.Query().Get("clientId")

		activities := []models.Activity{}
		stats := models.ActivityStats{}
		if rec != nil {
			if clientID != "" {
				entries, err := rec.ForClient(r.Context(), clientID)
				if err != nil {
					logging.Printf(r.Context(), "❌ Error loading activity for client %s: %v", clientID, err)
					writeServiceError(w, err, "Failed to load activity", nil)
					return
				}
				if entries != nil {
					activities = entries
				}
			} else {
				activities = rec.History(r.Context(), limit, kind)
			}
			stats = rec.Stats()
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"activities": activities,
			"stats":      stats,
		})
	}
}
