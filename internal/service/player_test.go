package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

func newPlayerService(auth *fakeAuth, db *fakeDB) *PlayerService {
	images := newImageService(auth, db, &fakeStorage{})
	return NewPlayerService(auth, db, images, testLogger())
}

func TestGetMyPlayer_NoSessionIsNil(t *testing.T) {
	svc := newPlayerService(&fakeAuth{}, &fakeDB{})

	player, err := svc.GetMyPlayer(context.Background())
	require.NoError(t, err)
	assert.Nil(t, player)
}

func TestUpsertMyPlayer_NoSession(t *testing.T) {
	svc := newPlayerService(&fakeAuth{}, &fakeDB{})

	_, err := svc.UpsertMyPlayer(context.Background(), UpsertPlayerInput{FirstName: "Ana"})
	assert.True(t, domain.IsNoSession(err))
}

func TestUpsertMyPlayer_InsertWhenNoLinkedRow(t *testing.T) {
	uid := uuid.New()
	auth := &fakeAuth{user: &domain.User{ID: uid, Email: "ana@test.com"}}
	db := &fakeDB{
		selectFn: func(q backend.Query, dest any) error {
			fill(t, dest, []domain.Player{})
			return nil
		},
		insertFn: func(table string, record, dest any) error {
			fill(t, dest, domain.Player{ID: 1, Nickname: "Ana López", UserID: &uid})
			return nil
		},
	}
	svc := newPlayerService(auth, db)

	player, err := svc.UpsertMyPlayer(context.Background(), UpsertPlayerInput{FirstName: "Ana", LastName: "López"})
	require.NoError(t, err)
	require.NotNil(t, player)

	insert := db.lastCall("insert")
	require.NotNil(t, insert)
	row, ok := insert.record.(myPlayerInsert)
	require.True(t, ok)
	assert.Equal(t, uid, row.UserID)
	assert.Equal(t, "Ana López", row.Nickname)
}

func TestUpsertMyPlayer_PatchWhenLinkedRowExists(t *testing.T) {
	uid := uuid.New()
	auth := &fakeAuth{user: &domain.User{ID: uid, Email: "ana@test.com"}}
	existing := "https://store.example/storage/v1/object/public/player-images/" + uid.String() + "/player-1"
	db := &fakeDB{
		selectFn: func(q backend.Query, dest any) error {
			fill(t, dest, []domain.Player{{ID: 9, Nickname: "Ana", UserID: &uid, ImageURL: &existing, Lives: 4}})
			return nil
		},
		updateFn: func(table string, patch any, q backend.Query, dest any) error {
			fill(t, dest, domain.Player{ID: 9, Nickname: "Ana López", UserID: &uid})
			return nil
		},
	}
	svc := newPlayerService(auth, db)

	_, err := svc.UpsertMyPlayer(context.Background(), UpsertPlayerInput{FirstName: "Ana", LastName: "López"})
	require.NoError(t, err)

	assert.Nil(t, db.lastCall("insert"))
	update := db.lastCall("update")
	require.NotNil(t, update)
	assert.Equal(t, "players", update.table)

	patch, ok := update.patch.(myPlayerPatch)
	require.True(t, ok)
	// Existing image survives an upsert without a new one.
	require.NotNil(t, patch.ImageURL)
	assert.Equal(t, existing, *patch.ImageURL)
}

func TestUpsertMyPlayer_NeverWritesLives(t *testing.T) {
	uid := uuid.New()
	auth := &fakeAuth{user: &domain.User{ID: uid, Email: "ana@test.com"}}
	db := &fakeDB{
		selectFn: func(q backend.Query, dest any) error {
			fill(t, dest, []domain.Player{{ID: 9, Nickname: "Ana", UserID: &uid, Lives: 2, MaxLives: 12}})
			return nil
		},
	}
	svc := newPlayerService(auth, db)

	_, err := svc.UpsertMyPlayer(context.Background(), UpsertPlayerInput{FirstName: "Ana"})
	require.NoError(t, err)

	update := db.lastCall("update")
	require.NotNil(t, update)
	data, err := json.Marshal(update.patch)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "lives")
}

func TestUpsertMyPlayer_NicknameFallbackChain(t *testing.T) {
	uid := uuid.New()
	db := &fakeDB{
		selectFn: func(q backend.Query, dest any) error {
			fill(t, dest, []domain.Player{})
			return nil
		},
	}

	// No names: falls back to the email.
	svc := newPlayerService(&fakeAuth{user: &domain.User{ID: uid, Email: "ana@test.com"}}, db)
	_, err := svc.UpsertMyPlayer(context.Background(), UpsertPlayerInput{})
	require.NoError(t, err)
	row := db.lastCall("insert").record.(myPlayerInsert)
	assert.Equal(t, "ana@test.com", row.Nickname)

	// No names, no email: fixed fallback.
	db.calls = nil
	svc = newPlayerService(&fakeAuth{user: &domain.User{ID: uid}}, db)
	_, err = svc.UpsertMyPlayer(context.Background(), UpsertPlayerInput{})
	require.NoError(t, err)
	row = db.lastCall("insert").record.(myPlayerInsert)
	assert.Equal(t, "Jugador", row.Nickname)
}
