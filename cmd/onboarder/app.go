package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/pysugar/channel-onboard/internal/auth/google"
	"github.com/pysugar/channel-onboard/internal/auth/token"
	"github.com/pysugar/channel-onboard/internal/config"
	"github.com/pysugar/channel-onboard/internal/journal"
	"github.com/pysugar/channel-onboard/internal/onboard"
	"github.com/pysugar/channel-onboard/internal/sheets"
	"github.com/pysugar/channel-onboard/internal/webhook"
	"github.com/pysugar/channel-onboard/internal/youtube"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const assetTimeout = 2 * time.Minute

// loadConfig reads .env (if present) into the environment, then builds the
// configuration.
func loadConfig() (config.Config, error) {
	_ = godotenv.Load() // silently ignore if .env doesn't exist
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if cfg.FilePath != "" {
		log.Printf("📄 Loaded config from %s", cfg.FilePath)
	}
	return cfg, nil
}

func newTokenManager(cfg config.Config) *token.Manager {
	oauthCfg := google.NewOAuthConfig(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI)
	return token.NewManager(oauthCfg, token.NewFileStore(cfg.Storage.TokenPath))
}

// newStateSigner keys consent states by the client secret so states printed
// by `oauth url` are accepted by the server's redirect callback.
func newStateSigner(cfg config.Config) *google.StateSigner {
	return google.NewStateSigner(cfg.Google.ClientSecret)
}

// newRecordStore authenticates with the service account when one is
// configured, otherwise with the admin OAuth credential.
func newRecordStore(ctx context.Context, cfg config.Config, tokens *token.Manager) (*sheets.SheetStore, error) {
	var src oauth2.TokenSource = tokens
	if cfg.UsesServiceAccount() {
		jwtCfg := &jwt.Config{
			Email:      cfg.Sheets.ServiceAccountEmail,
			PrivateKey: []byte(cfg.Sheets.PrivateKey),
			Scopes:     []string{sheetsapi.SpreadsheetsScope},
			TokenURL:   googleoauth.JWTTokenURL,
		}
		src = jwtCfg.TokenSource(context.Background())
		log.Printf("🔑 Using service account %s for Google Sheets", cfg.Sheets.ServiceAccountEmail)
	}

	values, err := sheets.NewGoogleValues(ctx, cfg.Sheets.SpreadsheetID, option.WithTokenSource(src))
	if err != nil {
		return nil, err
	}
	return sheets.NewSheetStore(values, cfg.Sheets.SheetName), nil
}

type app struct {
	tokens  *token.Manager
	service *onboard.Service
}

// buildApp wires the onboarding service. rec may be nil.
func buildApp(ctx context.Context, cfg config.Config, rec *journal.Recorder) (*app, error) {
	tokens := newTokenManager(cfg)

	store, err := newRecordStore(ctx, cfg, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to set up record store: %w", err)
	}

	channels, err := youtube.NewGoogleChannels(ctx, option.WithTokenSource(tokens))
	if err != nil {
		return nil, fmt.Errorf("failed to set up youtube client: %w", err)
	}

	svc := onboard.NewService(onboard.Deps{
		Store:        store,
		Provisioner:  youtube.NewProvisioner(tokens, channels, youtube.NewHTTPFetcher(assetTimeout)),
		Auth:         tokens,
		States:       newStateSigner(cfg),
		Placeholders: youtube.Placeholders{MasterChannelID: cfg.YouTube.MasterChannelID},
		Notifier:     webhook.New(cfg.Webhook.URL, cfg.Webhook.Timeout),
		Journal:      rec,
	})

	return &app{tokens: tokens, service: svc}, nil
}
