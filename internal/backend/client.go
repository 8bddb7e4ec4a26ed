// Package backend defines the capability surface of the hosted backend
// (auth, table queries, remote procedures, object storage, realtime change
// feed). The access layer depends only on these interfaces so tests can
// substitute fakes for the REST implementation.
package backend

import (
	"context"
	"encoding/json"

	"github.com/livesboard/livesboard/internal/domain"
)

// Auth is the session surface of the backend's auth provider.
type Auth interface {
	// SignInWithPassword exchanges email/password credentials for a session.
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	// OAuthURL returns the authorize URL that starts the OAuth redirect flow.
	OAuthURL(provider, redirectTo string) string
	// SignOut revokes the current session. Safe to call without one.
	SignOut(ctx context.Context) error
	// Session returns the current session, or nil without error when absent.
	Session(ctx context.Context) (*domain.Session, error)
	// User returns the authenticated user, or nil without error when absent.
	User(ctx context.Context) (*domain.User, error)
}

// Database is the table read/write surface. Results decode into dest the way
// encoding/json does; Select always decodes into a slice pointer.
type Database interface {
	Select(ctx context.Context, q Query, dest any) error
	// Insert creates one row and decodes the representation into dest when
	// dest is non-nil.
	Insert(ctx context.Context, table string, record, dest any) error
	// Update patches every row matched by q and decodes the first updated
	// representation into dest when dest is non-nil.
	Update(ctx context.Context, table string, patch any, q Query, dest any) error
	Delete(ctx context.Context, table string, q Query) error
}

// RPC invokes named server-side procedures, passing params through opaquely.
type RPC interface {
	Call(ctx context.Context, fn string, params, dest any) error
}

// ObjectStore is the object storage surface.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket string, paths []string) error
}

// ChangeType selects which row-level events a subscription receives.
type ChangeType string

const (
	ChangeAll    ChangeType = "*"
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Change is one row-level event from the realtime feed, relayed to the
// subscriber verbatim. No ordering guarantee beyond transport arrival order.
type Change struct {
	Type   ChangeType      `json:"type"`
	Schema string          `json:"schema"`
	Table  string          `json:"table"`
	Record json.RawMessage `json:"record"`
	Old    json.RawMessage `json:"old_record"`
}

// Subscription is a live realtime channel. Close tears it down; the channel
// otherwise runs until its context is canceled.
type Subscription interface {
	Close() error
}

// Realtime opens long-lived change-feed subscriptions per table.
type Realtime interface {
	Subscribe(ctx context.Context, table string, event ChangeType, fn func(Change)) (Subscription, error)
}

// Client bundles the five backend capabilities. One instance is created at
// startup and shared by every service.
type Client struct {
	Auth     Auth
	DB       Database
	RPC      RPC
	Storage  ObjectStore
	Realtime Realtime
}
