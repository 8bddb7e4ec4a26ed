package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

// AuthService exposes session operations to the presentation layer.
type AuthService struct {
	auth   backend.Auth
	logger *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(auth backend.Auth, logger *slog.Logger) *AuthService {
	return &AuthService{auth: auth, logger: logger}
}

// SignInWithPassword signs in with email/password credentials (the admin
// login path).
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return session, nil
}

// OAuthSignInURL returns the URL that starts the OAuth redirect flow for the
// given provider. The session materializes at the redirect target.
func (s *AuthService) OAuthSignInURL(provider, redirectTo string) string {
	return s.auth.OAuthURL(provider, redirectTo)
}

// SignOut revokes the current session. The auth provider keeps a single
// session, so this signs out user and admin alike.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// GetSession returns the current session, or nil when none exists. Absence
// of a session is a normal state, not an error.
func (s *AuthService) GetSession(ctx context.Context) (*domain.Session, error) {
	return s.auth.Session(ctx)
}

// CurrentUser returns the authenticated user, or nil when no session exists.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.auth.User(ctx)
}
