package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/livesboard/livesboard/internal/domain"
)

// tokenResponse is the auth provider's token grant body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	} `json:"user"`
}

func (t *tokenResponse) session() *domain.Session {
	return &domain.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(t.ExpiresIn) * time.Second),
		User:         domain.User{ID: t.User.ID, Email: t.User.Email},
	}
}

// SignInWithPassword exchanges email/password credentials for a session and
// holds it for subsequent requests.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	query := url.Values{"grant_type": {"password"}}
	payload := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if err := c.doJSON(ctx, "POST", "/auth/v1/token", query, nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("password sign-in: %w", err)
	}

	s := resp.session()
	c.SetSession(s)
	return s, nil
}

// OAuthURL returns the authorize URL that starts the provider redirect flow.
// The resulting session arrives at the redirect target, not here.
func (c *Client) OAuthURL(provider, redirectTo string) string {
	query := url.Values{"provider": {provider}}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/auth/v1/authorize?" + query.Encode()
}

// SignOut revokes the held session. Clears local state even when the revoke
// call fails, so a broken backend cannot pin a stale session.
func (c *Client) SignOut(ctx context.Context) error {
	if c.currentSession() == nil {
		return nil
	}
	err := c.doJSON(ctx, "POST", "/auth/v1/logout", nil, nil, nil, nil)
	c.SetSession(nil)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Session returns the held session, refreshed when near expiry, or nil
// without error when no session is held.
func (c *Client) Session(ctx context.Context) (*domain.Session, error) {
	s := c.currentSession()
	if s == nil {
		return nil, nil
	}
	if s.Expired(refreshMargin) && s.RefreshToken != "" {
		refreshed, err := c.refreshHeldSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		return refreshed, nil
	}
	return s, nil
}

// User returns the authenticated user from the auth provider, or nil without
// error when no session is held.
func (c *Client) User(ctx context.Context) (*domain.User, error) {
	if c.currentSession() == nil {
		return nil, nil
	}
	var resp struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}
	if err := c.doJSON(ctx, "GET", "/auth/v1/user", nil, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	return &domain.User{ID: resp.ID, Email: resp.Email}, nil
}

// refreshSession exchanges a refresh token for a new session. The grant
// authenticates with the anon key, bypassing the session token path: the held
// token is expired at this point and must not gate its own replacement.
func (c *Client) refreshSession(ctx context.Context, refreshToken string) (*domain.Session, error) {
	query := url.Values{"grant_type": {"refresh_token"}}
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp tokenResponse
	if err := c.send(ctx, "POST", "/auth/v1/token", query, nil, bytes.NewReader(body), "application/json", c.anonKey, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

// SessionFromTokens rebuilds a session from persisted tokens. The access
// token's claims supply the user id, email and expiry; the signature is not
// verified here since only the backend can authorize requests anyway.
func SessionFromTokens(accessToken, refreshToken string) (*domain.Session, error) {
	var claims jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	s := &domain.Session{AccessToken: accessToken, RefreshToken: refreshToken}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		id, err := uuid.Parse(sub)
		if err != nil {
			return nil, fmt.Errorf("parse token subject: %w", err)
		}
		s.User.ID = id
	}
	if email, ok := claims["email"].(string); ok {
		s.User.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}
