// Package googleauth manages the Google OAuth2 credentials used by the
// calendar adapter.
//
// Tokens are exchanged through the HTTP login flow exposed by the api package
// and persisted as JSON in the state directory so a restart does not require
// re-authorizing.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/proelectricos/charlie-bot/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// calendarScope is the only scope the bot requests.
const calendarScope = "https://www.googleapis.com/auth/calendar"

// DefaultRedirectURL is used when no redirect URL is configured.
const DefaultRedirectURL = "http://localhost:3000/auth/callback"

// Opts holds configuration options for the OAuth manager.
type Opts struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenPath    string
}

// Option defines a configuration option for the OAuth manager.
type Option func(*Opts)

// WithClientID sets the Google OAuth client ID.
func WithClientID(id string) Option {
	return func(o *Opts) { o.ClientID = id }
}

// WithClientSecret sets the Google OAuth client secret.
func WithClientSecret(secret string) Option {
	return func(o *Opts) { o.ClientSecret = secret }
}

// WithRedirectURL sets the OAuth callback URL.
func WithRedirectURL(u string) Option {
	return func(o *Opts) { o.RedirectURL = u }
}

// WithTokenPath sets where the exchanged token is persisted.
func WithTokenPath(p string) Option {
	return func(o *Opts) { o.TokenPath = p }
}

// Manager holds the OAuth2 configuration and the current token.
type Manager struct {
	conf      *oauth2.Config
	tokenPath string

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewManager creates an OAuth manager, falling back to the GOOGLE_CLIENT_ID,
// GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL environment variables for
// unset options. A previously persisted token is loaded if present.
func NewManager(opts ...Option) (*Manager, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.ClientID == "" {
		cfg.ClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	}
	if cfg.RedirectURL == "" {
		cfg.RedirectURL = DefaultRedirectURL
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("google OAuth client ID and secret must be provided")
	}

	m := &Manager{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendarScope},
			Endpoint:     google.Endpoint,
		},
		tokenPath: cfg.TokenPath,
	}

	if m.tokenPath != "" {
		if err := m.loadToken(); err != nil {
			slog.Warn("GoogleAuth no persisted token, login required", "token_path", m.tokenPath, "error", err)
		} else {
			slog.Info("GoogleAuth persisted token loaded", "token_path", m.tokenPath)
		}
	}
	return m, nil
}

func (m *Manager) loadToken() error {
	data, err := os.ReadFile(m.tokenPath)
	if err != nil {
		return err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return fmt.Errorf("decoding persisted token: %w", err)
	}
	m.mu.Lock()
	m.token = &tok
	m.mu.Unlock()
	return nil
}

func (m *Manager) saveToken(tok *oauth2.Token) error {
	if m.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.tokenPath), 0o755); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	if err := os.WriteFile(m.tokenPath, data, 0o600); err != nil {
		return fmt.Errorf("persisting token: %w", err)
	}
	return nil
}

// AuthURL returns the Google consent URL the operator must visit.
func (m *Manager) AuthURL() string {
	return m.conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and persists it.
func (m *Manager) Exchange(ctx context.Context, code string) error {
	tok, err := m.conf.Exchange(ctx, code)
	if err != nil {
		slog.Error("GoogleAuth code exchange failed", "error", err)
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()
	if err := m.saveToken(tok); err != nil {
		slog.Error("GoogleAuth token persistence failed", "error", err)
		return err
	}
	slog.Info("GoogleAuth token obtained and persisted")
	return nil
}

// IsAuthenticated reports whether a usable token is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != nil && m.token.AccessToken != ""
}

// TokenSource returns a self-refreshing token source, or
// models.ErrCalendarNotAuthenticated when the login flow has not run yet.
func (m *Manager) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	m.mu.RLock()
	tok := m.token
	m.mu.RUnlock()
	if tok == nil || tok.AccessToken == "" {
		return nil, models.ErrCalendarNotAuthenticated
	}
	return m.conf.TokenSource(ctx, tok), nil
}
