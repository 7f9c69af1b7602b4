// Package config loads onboarder settings from defaults, an optional YAML file
// and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = "3001"
	defaultHost            = "127.0.0.1"
	defaultRedirectURI     = "urn:ietf:wg:oauth:2.0:oob"
	defaultSheetName       = "Clients"
	defaultMasterChannelID = "PLACEHOLDER_CHANNEL_ID"
	defaultTokenPath       = "tokens.json"
	defaultDatabasePath    = "onboard.db"
	defaultWebhookTimeout  = 10 * time.Second
)

type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Google   GoogleConfig  `yaml:"google"`
	Sheets   SheetsConfig  `yaml:"sheets"`
	YouTube  YouTubeConfig `yaml:"youtube"`
	Webhook  WebhookConfig `yaml:"webhook"`
	Storage  StorageConfig `yaml:"storage"`
	Admin    AdminConfig   `yaml:"admin"`
	FilePath string        `yaml:"-"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// GoogleConfig holds the OAuth client used for the admin consent flow.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// SheetsConfig addresses the spreadsheet acting as the client record store.
// When the service account fields are empty the OAuth credential is used.
type SheetsConfig struct {
	SpreadsheetID       string `yaml:"spreadsheet_id"`
	SheetName           string `yaml:"sheet_name"`
	ServiceAccountEmail string `yaml:"service_account_email"`
	PrivateKey          string `yaml:"private_key"`
}

type YouTubeConfig struct {
	MasterChannelID string `yaml:"master_channel_id"`
}

type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	TokenPath    string `yaml:"token_path"`
	DatabasePath string `yaml:"database_path"`
}

type AdminConfig struct {
	Password string `yaml:"password"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:        defaultHost,
			Port:        defaultPort,
			CORSOrigins: []string{"*"},
		},
		Google: GoogleConfig{RedirectURI: defaultRedirectURI},
		Sheets: SheetsConfig{SheetName: defaultSheetName},
		YouTube: YouTubeConfig{
			MasterChannelID: defaultMasterChannelID,
		},
		Webhook: WebhookConfig{Timeout: defaultWebhookTimeout},
		Storage: StorageConfig{
			TokenPath:    defaultTokenPath,
			DatabasePath: defaultDatabasePath,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (if one is
// found), then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	path, err := resolveConfigPath()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
		cfg.FilePath = path
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// UsesServiceAccount reports whether the record store authenticates with a
// service account instead of the admin OAuth credential.
func (c Config) UsesServiceAccount() bool {
	return c.Sheets.ServiceAccountEmail != "" && c.Sheets.PrivateKey != ""
}

// Validate reports the settings the server cannot run without.
func (c Config) Validate() error {
	var errs []error
	if c.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("GOOGLE_SHEETS_SPREADSHEET_ID is not set"))
	}
	if c.Google.ClientID == "" || c.Google.ClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set"))
	}
	if (c.Sheets.ServiceAccountEmail == "") != (c.Sheets.PrivateKey == "") {
		errs = append(errs, errors.New("service account requires both GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_PRIVATE_KEY"))
	}
	return errors.Join(errs...)
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "HOST")
	setString(&cfg.Server.Port, "PORT")
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	setString(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Google.RedirectURI, "GOOGLE_REDIRECT_URI")

	setString(&cfg.Sheets.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")
	setString(&cfg.Sheets.SheetName, "SHEET_NAME")
	setString(&cfg.Sheets.ServiceAccountEmail, "GOOGLE_SERVICE_ACCOUNT_EMAIL")
	setString(&cfg.Sheets.PrivateKey, "GOOGLE_PRIVATE_KEY")
	// Keys pasted into .env files usually carry literal "\n" sequences.
	cfg.Sheets.PrivateKey = strings.ReplaceAll(cfg.Sheets.PrivateKey, `\n`, "\n")

	setString(&cfg.YouTube.MasterChannelID, "YOUTUBE_MASTER_CHANNEL_ID")

	setString(&cfg.Webhook.URL, "N8N_WEBHOOK_URL")
	if v := strings.TrimSpace(os.Getenv("WEBHOOK_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			if secs, convErr := strconv.Atoi(v); convErr == nil {
				d = time.Duration(secs) * time.Second
			} else {
				return fmt.Errorf("invalid WEBHOOK_TIMEOUT %q: %w", v, err)
			}
		}
		cfg.Webhook.Timeout = d
	}

	setString(&cfg.Storage.TokenPath, "TOKEN_PATH")
	setString(&cfg.Storage.DatabasePath, "DATABASE_PATH")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	return nil
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func resolveConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("ONBOARD_CONFIG_FILE")); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	candidates := []string{
		"config/onboard.yaml",
		"/etc/onboard/onboard.yaml",
	}
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != "" {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "onboard", "onboard.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}
