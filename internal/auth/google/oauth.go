package google

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
	"google.golang.org/api/youtube/v3"
)

// Scopes requested on the consent screen. The spreadsheet scope lets the
// record store reuse the admin credential when no service account is set.
var Scopes = []string{
	youtube.YoutubeScope,
	youtube.YoutubeUploadScope,
	youtube.YoutubeForceSslScope,
	sheets.SpreadsheetsScope,
}

// StateTTL is how long a consent URL's state stays acceptable.
const StateTTL = time.Hour

// StateSigner mints and checks the CSRF state carried through the browser
// redirect. A state is "<nonce>.<unix>.<hmac>" keyed by the OAuth client
// secret, so the CLI and the server accept each other's states and a
// restart does not invalidate an open consent page.
type StateSigner struct {
	key  []byte
	now  func() time.Time
	rand io.Reader
}

func NewStateSigner(clientSecret string) *StateSigner {
	return &StateSigner{
		key:  []byte(clientSecret),
		now:  time.Now,
		rand: rand.Reader,
	}
}

// Mint returns a fresh state token.
func (s *StateSigner) Mint() (string, error) {
	nonce := make([]byte, 16)
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	payload := hex.EncodeToString(nonce) + "." + strconv.FormatInt(s.now().Unix(), 10)
	return payload + "." + s.sign(payload), nil
}

// Valid reports whether state was minted with the same secret within StateTTL.
func (s *StateSigner) Valid(state string) bool {
	i := strings.LastIndexByte(state, '.')
	if i < 0 {
		return false
	}
	payload, sig := state[:i], state[i+1:]
	if !hmac.Equal([]byte(sig), []byte(s.sign(payload))) {
		return false
	}

	_, ts, ok := strings.Cut(payload, ".")
	if !ok {
		return false
	}
	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	age := s.now().Sub(time.Unix(issued, 0))
	// small negative ages tolerate clock skew between CLI and server hosts
	return age > -time.Minute && age <= StateTTL
}

func (s *StateSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewOAuthConfig returns the OAuth2 config for the admin consent flow.
func NewOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     googleOAuth.Endpoint,
	}
}

// AuthCodeOptions forces offline access and the consent prompt so Google
// always hands out a refresh token.
func AuthCodeOptions() []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	}
}
