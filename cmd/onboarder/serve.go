package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pysugar/channel-onboard/internal/api"
	"github.com/pysugar/channel-onboard/internal/db"
	"github.com/pysugar/channel-onboard/internal/journal"
	"github.com/pysugar/channel-onboard/internal/version"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	database, err := db.InitDB(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	recorder := journal.NewRecorder(database)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, recorder)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(api.RouterConfig{
			Service:       a.service,
			Journal:       recorder,
			AdminPassword: cfg.Admin.Password,
			CORSOrigins:   cfg.Server.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	displayURL := "localhost:" + cfg.Server.Port
	if cfg.Server.Host == "0.0.0.0" {
		displayURL = "<your-ip>:" + cfg.Server.Port
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("🚀 Onboarder %s running on http://%s", version.Version, cfg.Addr())
		log.Printf("📊 Health check: http://%s/health", displayURL)
		log.Printf("🔧 Admin API: http://%s/api/admin", displayURL)
		if !a.tokens.IsAuthorized() {
			log.Printf("🔑 OAuth2 authorization required: GET /api/admin/oauth/url or run `onboarder oauth url`")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		recorder.Wait()
		return err
	})
	return g.Wait()
}

// maskSecret keeps the last four characters of a secret for display.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
