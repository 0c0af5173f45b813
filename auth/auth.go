// Package auth supplies OAuth credentials for the YouTube Analytics and
// Reporting APIs. Tokens are persisted per scope name so the two services
// authorize independently.
package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"sync"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"ytingest/internal/storage"
)

var log = logger.GetOrCreate("auth")

// Scope is the read-only YouTube Analytics scope used by both services.
const Scope = "https://www.googleapis.com/auth/yt-analytics.readonly"

// Token scope names. Each name maps to a separately persisted credential
// record.
const (
	TokenAnalytics = "analytics"
	TokenReporting = "reporting"
)

// Credentials is the serializable credential record persisted between runs.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

func newCredentials(tok *oauth2.Token) Credentials {
	return Credentials{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}

func (c Credentials) token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// Provider loads, refreshes, and persists OAuth credentials for named
// token scopes.
type Provider struct {
	oauth *oauth2.Config
	store *storage.TokenStore

	// Authorize obtains an authorization code for the given consent URL.
	// The default implementation prints the URL and reads the code from
	// standard input; tests and embedders may replace it.
	Authorize func(authURL string) (string, error)
}

// NewProvider creates a provider from an OAuth client secrets file,
// persisting tokens under tokenDir.
func NewProvider(clientSecretPath, tokenDir string) (*Provider, error) {
	data, err := os.ReadFile(clientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %s: %w", clientSecretPath, err)
	}

	cfg, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	return &Provider{
		oauth:     cfg,
		store:     storage.NewTokenStore(tokenDir),
		Authorize: promptAuthCode,
	}, nil
}

// TokenSource returns a refreshing token source for the named scope.
// A persisted token is reused when still usable; otherwise the interactive
// authorization flow runs and the result is persisted. Refreshed tokens are
// persisted transparently.
func (p *Provider) TokenSource(ctx context.Context, name string) (oauth2.TokenSource, error) {
	var creds Credentials
	err := p.store.Load(name, &creds)

	var tok *oauth2.Token
	switch {
	case err == nil:
		tok = creds.token()
		if !tok.Valid() && tok.RefreshToken == "" {
			log.Info("persisted token expired without refresh token", "scope", name)
			tok = nil
		}
	case errors.Is(err, storage.ErrNotFound):
		log.Info("no persisted token", "scope", name)
	default:
		return nil, err
	}

	if tok == nil {
		tok, err = p.authorize(ctx)
		if err != nil {
			return nil, fmt.Errorf("authorize %s: %w", name, err)
		}
		if err := p.store.Save(name, newCredentials(tok)); err != nil {
			return nil, err
		}
	}

	return &persistingTokenSource{
		name:  name,
		store: p.store,
		inner: p.oauth.TokenSource(ctx, tok),
		last:  tok,
	}, nil
}

// Client returns an HTTP client that injects credentials for the named
// scope into every request.
func (p *Provider) Client(ctx context.Context, name string) (*stdhttp.Client, error) {
	ts, err := p.TokenSource(ctx, name)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

// authorize runs the installed-app consent flow and exchanges the resulting
// code for a token.
func (p *Provider) authorize(ctx context.Context) (*oauth2.Token, error) {
	authURL := p.oauth.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	code, err := p.Authorize(authURL)
	if err != nil {
		return nil, err
	}
	return p.oauth.Exchange(ctx, code)
}

// promptAuthCode asks the user to visit the consent URL and paste the code.
func promptAuthCode(authURL string) (string, error) {
	fmt.Fprintf(os.Stderr, "Visit the following URL to authorize access:\n%s\n\nEnter the authorization code: ", authURL)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no authorization code entered")
	}
	return scanner.Text(), nil
}

// persistingTokenSource saves tokens whenever the wrapped source hands out
// a new one, so refreshed credentials survive the process.
type persistingTokenSource struct {
	name  string
	store *storage.TokenStore
	inner oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.inner.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken {
		if err := s.store.Save(s.name, newCredentials(tok)); err != nil {
			log.Warn("failed to persist refreshed token", "scope", s.name, "error", err)
		} else {
			log.Debug("persisted refreshed token", "scope", s.name)
		}
		s.last = tok
	}
	return tok, nil
}
