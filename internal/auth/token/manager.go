package token

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pysugar/channel-onboard/internal/auth/google"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// RefreshMargin is how early the access token is refreshed before expiry.
const RefreshMargin = 5 * time.Minute

var (
	ErrUnauthorized = errors.New("not authorized, complete the OAuth2 consent flow first")
	ErrAuthExchange = errors.New("failed to authorize with Google")
	ErrRefresh      = errors.New("failed to refresh access token")
)

// Manager owns the one live OAuth2 credential of the process. It is built
// once at startup and handed to every consumer.
type Manager struct {
	config *oauth2.Config
	store  Store
	now    func() time.Time

	mu   sync.RWMutex
	cred *Credential

	refreshes singleflight.Group
}

// NewManager creates a manager and loads any previously stored credential.
func NewManager(config *oauth2.Config, store Store) *Manager {
	m := &Manager{
		config: config,
		store:  store,
		now:    time.Now,
	}
	m.loadCredential()
	return m
}

func (m *Manager) loadCredential() {
	cred, err := m.store.Load()
	if err != nil {
		log.Printf("⚠️ Error loading OAuth2 tokens: %v", err)
		return
	}
	if cred == nil {
		log.Printf("🔑 No existing tokens found. Authorization needed.")
		return
	}

	m.mu.Lock()
	m.cred = cred
	m.mu.Unlock()
	log.Printf("📦 OAuth2 tokens loaded (expires: %s)", formatExpiry(*cred))
}

// AuthCodeURL builds the consent URL for the fixed scope set.
func (m *Manager) AuthCodeURL(state string) string {
	return m.config.AuthCodeURL(state, google.AuthCodeOptions()...)
}

// Exchange trades a one-time authorization code for a credential.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	tok, err := m.config.Exchange(ctx, code)
	if err != nil {
		log.Printf("❌ Error during authorization: %v", err)
		return fmt.Errorf("%w: %v", ErrAuthExchange, err)
	}

	m.mu.RLock()
	previous := m.cred
	m.mu.RUnlock()

	m.replace(credentialFromToken(tok, previous))
	log.Printf("✅ Authorization successful")
	return nil
}

// IsAuthorized reports whether an access token is held. Expiry is not checked.
func (m *Manager) IsAuthorized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cred != nil && m.cred.AccessToken != ""
}

// Credential returns a copy of the current credential.
func (m *Manager) Credential() (Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return Credential{}, false
	}
	return *m.cred, true
}

// EnsureValidToken must be called before any authenticated remote call. It
// refreshes synchronously when the token expires within RefreshMargin.
func (m *Manager) EnsureValidToken(ctx context.Context) error {
	cred, ok := m.Credential()
	if !ok || cred.AccessToken == "" {
		return ErrUnauthorized
	}
	if !m.expiring(cred) {
		return nil
	}

	// Callers that observed the same stale token share one refresh. A caller
	// arriving after it finished sees the fresh token and skips the remote call.
	_, err, _ := m.refreshes.Do("ensure", func() (any, error) {
		if cur, ok := m.Credential(); ok && !m.expiring(cur) {
			return nil, nil
		}
		return nil, m.refresh(ctx)
	})
	return err
}

// Refresh exchanges the stored refresh token for a new access token. There
// is no retry; failures go straight back to the caller.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.refreshes.Do("refresh", func() (any, error) {
		return nil, m.refresh(ctx)
	})
	return err
}

// Token implements oauth2.TokenSource for the Google API clients.
func (m *Manager) Token() (*oauth2.Token, error) {
	if err := m.EnsureValidToken(context.Background()); err != nil {
		return nil, err
	}
	cred, _ := m.Credential()
	return cred.OAuth2Token(), nil
}

func (m *Manager) expiring(cred Credential) bool {
	if cred.ExpiryDate == 0 {
		return false
	}
	return cred.ExpiryDate-m.now().UnixMilli() < RefreshMargin.Milliseconds()
}

func (m *Manager) refresh(ctx context.Context) error {
	current, ok := m.Credential()
	if !ok || current.RefreshToken == "" {
		return fmt.Errorf("%w: no refresh token stored", ErrRefresh)
	}

	src := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		log.Printf("❌ Error refreshing token: %v", err)
		return fmt.Errorf("%w: %v", ErrRefresh, err)
	}

	next := credentialFromToken(tok, &current)
	if next.RefreshToken != current.RefreshToken {
		log.Printf("🔄 Rotating refresh token")
	}
	m.replace(next)
	log.Printf("✅ Access token refreshed (expires: %s)", formatExpiry(next))
	return nil
}

// replace swaps the in-memory credential and persists it. A failed write is
// logged; the in-memory credential stays usable until the next restart.
func (m *Manager) replace(cred Credential) {
	m.mu.Lock()
	m.cred = &cred
	m.mu.Unlock()

	if err := m.store.Save(cred); err != nil {
		log.Printf("⚠️ Error saving tokens: %v", err)
		return
	}
	log.Printf("💾 Tokens saved")
}

func formatExpiry(cred Credential) string {
	if cred.ExpiryDate == 0 {
		return "unknown"
	}
	return cred.Expiry().Format(time.RFC3339)
}
