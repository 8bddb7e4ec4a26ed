package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

func TestGetMyProfile_NoSessionIsNil(t *testing.T) {
	svc := NewProfileService(&fakeAuth{}, &fakeDB{}, &fakeRPC{}, testLogger())

	profile, err := svc.GetMyProfile(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestUpdateMyProfile_NoSession(t *testing.T) {
	svc := NewProfileService(&fakeAuth{}, &fakeDB{}, &fakeRPC{}, testLogger())

	_, err := svc.UpdateMyProfile(context.Background(), domain.ProfileUpdate{})
	assert.True(t, domain.IsNoSession(err))
}

func TestUpdateMyProfile_PatchesOwnRow(t *testing.T) {
	uid := uuid.New()
	auth := &fakeAuth{user: &domain.User{ID: uid}}
	db := &fakeDB{
		updateFn: func(table string, patch any, q backend.Query, dest any) error {
			fill(t, dest, domain.Profile{ID: uid, DisplayName: "Nuevo"})
			return nil
		},
	}
	svc := NewProfileService(auth, db, &fakeRPC{}, testLogger())

	name := "Nuevo"
	profile, err := svc.UpdateMyProfile(context.Background(), domain.ProfileUpdate{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", profile.DisplayName)

	update := db.lastCall("update")
	require.NotNil(t, update)
	assert.Equal(t, "profiles", update.table)
	require.Len(t, update.query.Filters, 1)
	assert.Equal(t, uid.String(), update.query.Filters[0].Value)
}

func TestGetVIPProfile_ObjectShape(t *testing.T) {
	rpc := &fakeRPC{result: json.RawMessage(`{"display_name":"El VIP"}`)}
	svc := NewProfileService(&fakeAuth{}, &fakeDB{}, rpc, testLogger())

	vip, err := svc.GetVIPProfile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, vip)
	assert.Equal(t, "El VIP", vip.DisplayName)
	require.Len(t, rpc.calls, 1)
	assert.Equal(t, "get_vip_profile", rpc.calls[0].fn)
}

func TestGetVIPProfile_ArrayShape(t *testing.T) {
	rpc := &fakeRPC{result: json.RawMessage(`[{"display_name":"El VIP"}]`)}
	svc := NewProfileService(&fakeAuth{}, &fakeDB{}, rpc, testLogger())

	vip, err := svc.GetVIPProfile(context.Background())
	require.NoError(t, err)
	require.NotNil(t, vip)
	assert.Equal(t, "El VIP", vip.DisplayName)
}

func TestGetVIPProfile_EmptyShapes(t *testing.T) {
	for _, raw := range []string{`null`, `[]`} {
		rpc := &fakeRPC{result: json.RawMessage(raw)}
		svc := NewProfileService(&fakeAuth{}, &fakeDB{}, rpc, testLogger())

		vip, err := svc.GetVIPProfile(context.Background())
		require.NoError(t, err, "shape %s", raw)
		assert.Nil(t, vip, "shape %s", raw)
	}
}

func TestIsCurrentUserAdmin_FalseOnAnyFailure(t *testing.T) {
	// No session.
	svc := NewProfileService(&fakeAuth{}, &fakeDB{}, &fakeRPC{}, testLogger())
	assert.False(t, svc.IsCurrentUserAdmin(context.Background()))

	// Lookup failure.
	uid := uuid.New()
	db := &fakeDB{selectFn: func(q backend.Query, dest any) error { return errors.New("down") }}
	svc = NewProfileService(&fakeAuth{user: &domain.User{ID: uid}}, db, &fakeRPC{}, testLogger())
	assert.False(t, svc.IsCurrentUserAdmin(context.Background()))
}

func TestIsCurrentUserAdmin_True(t *testing.T) {
	uid := uuid.New()
	db := &fakeDB{
		selectFn: func(q backend.Query, dest any) error {
			fill(t, dest, []domain.Profile{{ID: uid, IsAdmin: true}})
			return nil
		},
	}
	svc := NewProfileService(&fakeAuth{user: &domain.User{ID: uid}}, db, &fakeRPC{}, testLogger())
	assert.True(t, svc.IsCurrentUserAdmin(context.Background()))
}
