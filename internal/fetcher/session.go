package fetcher

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	"invoice-prize-checker-go/internal/config"
)

// Session owns the OAuth2 credentials for one mailbox. It is created once at
// startup, shared by every request, and can be invalidated explicitly; there
// is no package-level token state.
type Session struct {
	mu     sync.RWMutex
	source oauth2.TokenSource
	user   string
}

// NewSession builds a session from a refresh token. Token acquisition itself
// (the consent flow) happens outside this service.
func NewSession(ctx context.Context, cfg *config.GmailConfig) *Session {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}

	return &Session{
		source: oauthConfig.TokenSource(ctx, token),
		user:   cfg.UserEmail,
	}
}

// TokenSource returns the current token source, nil after Invalidate.
func (s *Session) TokenSource() oauth2.TokenSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// User returns the mailbox owner's address.
func (s *Session) User() string {
	return s.user
}

// Invalidate drops the credentials; subsequent requests fail until a new
// session is built.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = nil
}
