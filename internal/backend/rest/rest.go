// Package rest implements the backend capability interfaces over the hosted
// backend's HTTP surface: auth endpoints, table and procedure endpoints,
// object storage, and the realtime WebSocket feed.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/livesboard/livesboard/internal/domain"
)

// refreshMargin is how close to expiry the access token may get before a
// refresh is attempted ahead of a request.
const refreshMargin = 30 * time.Second

// Client talks to the hosted backend. It is created once at startup and
// shared process-wide; the only mutable state is the held session.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	logger  *slog.Logger

	mu      sync.Mutex
	session *domain.Session

	refreshMu sync.Mutex // serializes token refreshes

	ref atomic.Int64 // realtime message ref counter
}

// New creates a backend client for the given endpoint URL and public API key.
func New(baseURL, anonKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		anonKey: anonKey,
		logger:  logger,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetSession installs a previously obtained session (e.g. restored from
// disk). Pass nil to drop the held session.
func (c *Client) SetSession(s *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// currentSession returns a copy of the held session, or nil.
func (c *Client) currentSession() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// bearerToken returns the Authorization token for a request: the session's
// access token when one is held (refreshing it near expiry), the anon key
// otherwise.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	s := c.currentSession()
	if s == nil {
		return c.anonKey, nil
	}
	if s.Expired(refreshMargin) && s.RefreshToken != "" {
		refreshed, err := c.refreshHeldSession(ctx)
		if err != nil {
			return "", fmt.Errorf("refresh session: %w", err)
		}
		if refreshed == nil {
			return c.anonKey, nil
		}
		return refreshed.AccessToken, nil
	}
	return s.AccessToken, nil
}

// refreshHeldSession exchanges the held refresh token for a fresh session and
// installs it. Concurrent callers near expiry are serialized so only the
// first one hits the token endpoint; the rest see the session it installed.
func (c *Client) refreshHeldSession(ctx context.Context) (*domain.Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	s := c.currentSession()
	if s == nil || !s.Expired(refreshMargin) || s.RefreshToken == "" {
		return s, nil
	}
	refreshed, err := c.refreshSession(ctx, s.RefreshToken)
	if err != nil {
		return nil, err
	}
	c.SetSession(refreshed)
	return refreshed, nil
}

// apiError is the error body shape shared by the auth and table endpoints.
type apiError struct {
	Message     string `json:"message"`
	Msg         string `json:"msg"`
	ErrorField  string `json:"error"`
	Description string `json:"error_description"`
	Details     string `json:"details"`
	Code        any    `json:"code"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.Description, e.ErrorField, e.Details} {
		if s != "" {
			return s
		}
	}
	return ""
}

// do performs one backend request and decodes the JSON response into dest
// when dest is non-nil. headers may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body io.Reader, contentType string, dest any) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, method, path, query, headers, body, contentType, token, dest)
}

// send performs one backend request with an explicit bearer token. The token
// refresh path uses this directly with the anon key; everything else goes
// through do.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, headers map[string]string, body io.Reader, contentType, token string, dest any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.text() != "" {
			return fmt.Errorf("backend returned %d: %s", resp.StatusCode, apiErr.text())
		}
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if dest != nil && len(data) > 0 {
		if err := json.Unmarshal(data, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// doJSON marshals payload and performs a JSON request.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, headers map[string]string, payload, dest any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, query, headers, body, "application/json", dest)
}

// firstRow decodes the first element of a JSON array response into dest.
// Returns false when the array is empty.
func firstRow(rows []json.RawMessage, dest any) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	if dest == nil {
		return true, nil
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return false, fmt.Errorf("decode row: %w", err)
	}
	return true, nil
}
