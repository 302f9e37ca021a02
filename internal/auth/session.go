// Package auth manages the Miro OAuth credential session.
//
// A Session holds the application credentials and the access token obtained
// through the authorization-code flow. It is an explicit object passed to the
// API client rather than process-global state, so multiple sessions could
// coexist if a future transport needed them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/mirod/internal/config"
)

// ErrNotAuthenticated is returned when a board/shape/group operation is
// attempted before the OAuth flow has completed.
var ErrNotAuthenticated = errors.New(
	"not authenticated: complete the OAuth flow first (get_auth_url, then exchange_auth_code)")

// Session holds OAuth credentials and the current access token.
type Session struct {
	mu     sync.Mutex
	oauth  oauth2.Config
	token  *oauth2.Token
	store  *TokenStore
	logger *zap.Logger
}

// NewSession creates a session from the Miro configuration. When a token file
// is configured, a previously saved token is loaded so an authenticated
// session survives restarts.
func NewSession(cfg config.MiroConfig, logger *zap.Logger) (*Session, error) {
	if cfg.ClientID == "" || !cfg.ClientSecret.IsSet() {
		return nil, fmt.Errorf("client ID and client secret are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret.Value(),
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthBaseURL + "/oauth/authorize",
				TokenURL: cfg.APIBaseURL + "/v1/oauth/token",
			},
		},
		logger: logger,
	}

	if cfg.TokenFile != "" {
		s.store = NewTokenStore(cfg.TokenFile)
		tok, err := s.store.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load stored token: %w", err)
		}
		if tok != nil {
			s.token = tok
			logger.Info("loaded stored OAuth token", zap.String("token_file", cfg.TokenFile))
		}
	}

	return s, nil
}

// AuthorizationURL returns the URL the user must visit to authorize the
// application. Pure function of the configured client ID and redirect URL,
// apart from the random CSRF state parameter.
func (s *Session) AuthorizationURL() string {
	return s.oauth.AuthCodeURL(uuid.NewString())
}

// Exchange trades an authorization code for an access token and stores it
// on the session, overwriting any previous token.
func (s *Session) Exchange(ctx context.Context, code string) error {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}
	s.SetToken(tok)
	s.logger.Info("OAuth token exchange succeeded",
		zap.Bool("has_refresh_token", tok.RefreshToken != ""))
	return nil
}

// SetToken overwrites the current token and persists it when a token store
// is configured.
func (s *Session) SetToken(tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
	s.persistLocked()
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil && s.token.AccessToken != ""
}

// Token returns the current token, refreshing it through the OAuth token
// endpoint when it has expired and a refresh token is available. Returns
// ErrNotAuthenticated when no token has been set.
func (s *Session) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil || s.token.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}

	tok, err := s.oauth.TokenSource(ctx, s.token).Token()
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	if tok.AccessToken != s.token.AccessToken {
		s.token = tok
		s.persistLocked()
		s.logger.Info("OAuth token refreshed")
	}
	return tok, nil
}

// AuthHeader returns the Authorization header value for outbound API calls.
func (s *Session) AuthHeader(ctx context.Context) (string, error) {
	tok, err := s.Token(ctx)
	if err != nil {
		return "", err
	}
	return "Bearer " + tok.AccessToken, nil
}

// persistLocked saves the current token to the store. Callers must hold mu.
func (s *Session) persistLocked() {
	if s.store == nil || s.token == nil {
		return
	}
	if err := s.store.Save(s.token); err != nil {
		// Persistence is best-effort; the in-memory token remains usable.
		s.logger.Warn("failed to persist OAuth token", zap.Error(err))
	}
}
