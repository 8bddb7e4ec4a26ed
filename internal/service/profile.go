package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

// ProfileService handles the authenticated identity's profile and the public
// VIP projection.
type ProfileService struct {
	auth   backend.Auth
	db     backend.Database
	rpc    backend.RPC
	logger *slog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(auth backend.Auth, db backend.Database, rpc backend.RPC, logger *slog.Logger) *ProfileService {
	return &ProfileService{auth: auth, db: db, rpc: rpc, logger: logger}
}

// GetMyProfile returns the authenticated identity's profile, or nil when no
// session or no matching row exists.
func (s *ProfileService) GetMyProfile(ctx context.Context) (*domain.Profile, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return selectOne[domain.Profile](ctx, s.db, backend.From("profiles").Eq("id", user.ID))
}

// UpdateMyProfile patches the authenticated identity's profile row.
func (s *ProfileService) UpdateMyProfile(ctx context.Context, updates domain.ProfileUpdate) (*domain.Profile, error) {
	user, err := s.auth.User(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession()
	}

	var profile domain.Profile
	if err := s.db.Update(ctx, "profiles", updates, backend.From("profiles").Eq("id", user.ID), &profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}

// GetVIPProfile returns the public admin projection via the get_vip_profile
// procedure. The procedure may answer with an object or a one-element array;
// both normalize to the same result.
func (s *ProfileService) GetVIPProfile(ctx context.Context) (*domain.VIPProfile, error) {
	var raw json.RawMessage
	if err := s.rpc.Call(ctx, "get_vip_profile", nil, &raw); err != nil {
		return nil, fmt.Errorf("get vip profile: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []domain.VIPProfile
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode vip profile: %w", err)
		}
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	}

	var vip domain.VIPProfile
	if err := json.Unmarshal(trimmed, &vip); err != nil {
		return nil, fmt.Errorf("decode vip profile: %w", err)
	}
	return &vip, nil
}

// IsCurrentUserAdmin reports whether the authenticated identity carries the
// admin flag. Any failure reads as "not admin".
func (s *ProfileService) IsCurrentUserAdmin(ctx context.Context) bool {
	user, err := s.auth.User(ctx)
	if err != nil || user == nil {
		return false
	}

	profile, err := selectOne[domain.Profile](ctx, s.db, backend.From("profiles").Select("id,is_admin").Eq("id", user.ID))
	if err != nil || profile == nil {
		return false
	}
	return profile.IsAdmin
}
