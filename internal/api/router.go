// Package api exposes the onboarding service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pysugar/channel-onboard/internal/api/handlers"
	"github.com/pysugar/channel-onboard/internal/api/middleware"
	"github.com/pysugar/channel-onboard/internal/journal"
	"github.com/pysugar/channel-onboard/internal/logging"
	"github.com/pysugar/channel-onboard/internal/onboard"
)

type RouterConfig struct {
	Service       *onboard.Service
	Journal       *journal.Recorder
	AdminPassword string
	CORSOrigins   []string
}

// NewRouter wires every route. Admin routes are behind basic auth when a
// password is set, except the browser OAuth redirect target.
func NewRouter(cfg RouterConfig) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(logging.Middleware)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logging.HeaderRequestID},
		ExposedHeaders:   []string{logging.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.HealthHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler())
		r.Post("/onboard", handlers.OnboardHandler(cfg.Service))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/oauth/callback", handlers.OAuthRedirectHandler(cfg.Service))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.AdminPassword))
				r.Get("/pending-channels", handlers.PendingChannelsHandler(cfg.Service))
				r.Post("/setup-channel", handlers.SetupChannelHandler(cfg.Service))
				r.Get("/oauth/url", handlers.OAuthURLHandler(cfg.Service))
				r.Post("/oauth/callback", handlers.OAuthCallbackHandler(cfg.Service))
				r.Get("/oauth/status", handlers.OAuthStatusHandler(cfg.Service))
				r.Get("/channel/{channelId}", handlers.ChannelInfoHandler(cfg.Service))
				r.Get("/activity", handlers.ActivityHandler(cfg.Journal))
			})
		})
	})

	return r
}
