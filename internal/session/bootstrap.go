// Package session tracks auth bootstrap state so callers can distinguish
// "no session" from "session not restored yet".
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/livesboard/livesboard/internal/backend"
)

// transitionDelay debounces the end of an auth transition so rapid
// sign-out/sign-in sequences do not flicker the initializing flag.
const transitionDelay = 120 * time.Millisecond

// Bootstrapper reports whether auth state is still settling. It starts in
// the initializing state and lowers the flag once the stored session has
// been probed.
type Bootstrapper struct {
	auth   backend.Auth
	logger *slog.Logger

	mu           sync.Mutex
	initializing bool
	pending      *time.Timer
	nextSubID    int
	subs         map[int]func(bool)
}

// NewBootstrapper creates a Bootstrapper in the initializing state.
func NewBootstrapper(auth backend.Auth, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{
		auth:         auth,
		logger:       logger,
		initializing: true,
		subs:         make(map[int]func(bool)),
	}
}

// Initializing reports whether auth state is still settling.
func (b *Bootstrapper) Initializing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initializing
}

// Subscribe registers fn to run on every flag change. The returned function
// cancels the subscription.
func (b *Bootstrapper) Subscribe(fn func(initializing bool)) func() {
	b.mu.Lock()
	id := b.nextSubID
	b.nextSubID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Initialize probes the stored session and lowers the initializing flag.
// The flag is lowered even when the probe fails: a broken stored session
// means signed out, not stuck loading.
func (b *Bootstrapper) Initialize(ctx context.Context) {
	if _, err := b.auth.Session(ctx); err != nil {
		b.logger.Warn("session restore failed", "error", err)
	}
	b.set(false)
}

// BeginTransition raises the flag for an auth state change in flight, such
// as an OAuth callback exchange.
func (b *Bootstrapper) BeginTransition() {
	b.mu.Lock()
	if b.pending != nil {
		b.pending.Stop()
		b.pending = nil
	}
	b.mu.Unlock()
	b.set(true)
}

// EndTransition schedules the flag to lower after a short debounce window.
// A BeginTransition during the window cancels the pending lower.
func (b *Bootstrapper) EndTransition() {
	b.mu.Lock()
	if b.pending != nil {
		b.pending.Stop()
	}
	b.pending = time.AfterFunc(transitionDelay, func() {
		b.set(false)
	})
	b.mu.Unlock()
}

func (b *Bootstrapper) set(initializing bool) {
	b.mu.Lock()
	if b.initializing == initializing {
		b.mu.Unlock()
		return
	}
	b.initializing = initializing
	fns := make([]func(bool), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(initializing)
	}
}
