package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/livesboard/livesboard/internal/backend"
	"github.com/livesboard/livesboard/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fill decodes value into dest the way the REST transport would.
func fill(t *testing.T, dest, value any) {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal fake value: %v", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("unmarshal fake value: %v", err)
	}
}

type fakeAuth struct {
	user    *domain.User
	session *domain.Session
	err     error
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) OAuthURL(provider, redirectTo string) string {
	return fmt.Sprintf("https://auth.example/authorize?provider=%s&redirect_to=%s", provider, redirectTo)
}

func (f *fakeAuth) SignOut(ctx context.Context) error { return f.err }

func (f *fakeAuth) Session(ctx context.Context) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) User(ctx context.Context) (*domain.User, error) {
	return f.user, f.err
}

type dbCall struct {
	op     string
	table  string
	query  backend.Query
	record any
	patch  any
}

type fakeDB struct {
	calls []dbCall

	selectFn func(q backend.Query, dest any) error
	insertFn func(table string, record, dest any) error
	updateFn func(table string, patch any, q backend.Query, dest any) error
	deleteFn func(table string, q backend.Query) error
}

func (f *fakeDB) Select(ctx context.Context, q backend.Query, dest any) error {
	f.calls = append(f.calls, dbCall{op: "select", table: q.Table, query: q})
	if f.selectFn != nil {
		return f.selectFn(q, dest)
	}
	return nil
}

func (f *fakeDB) Insert(ctx context.Context, table string, record, dest any) error {
	f.calls = append(f.calls, dbCall{op: "insert", table: table, record: record})
	if f.insertFn != nil {
		return f.insertFn(table, record, dest)
	}
	return nil
}

func (f *fakeDB) Update(ctx context.Context, table string, patch any, q backend.Query, dest any) error {
	f.calls = append(f.calls, dbCall{op: "update", table: table, query: q, patch: patch})
	if f.updateFn != nil {
		return f.updateFn(table, patch, q, dest)
	}
	return nil
}

func (f *fakeDB) Delete(ctx context.Context, table string, q backend.Query) error {
	f.calls = append(f.calls, dbCall{op: "delete", table: table, query: q})
	if f.deleteFn != nil {
		return f.deleteFn(table, q)
	}
	return nil
}

// lastCall returns the most recent call with the given op, or nil.
func (f *fakeDB) lastCall(op string) *dbCall {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].op == op {
			return &f.calls[i]
		}
	}
	return nil
}

type rpcCall struct {
	fn     string
	params any
}

type fakeRPC struct {
	calls  []rpcCall
	result json.RawMessage
	err    error
}

func (f *fakeRPC) Call(ctx context.Context, fn string, params, dest any) error {
	f.calls = append(f.calls, rpcCall{fn: fn, params: params})
	if f.err != nil {
		return f.err
	}
	if dest == nil || f.result == nil {
		return nil
	}
	return json.Unmarshal(f.result, dest)
}

type storedUpload struct {
	bucket      string
	path        string
	contentType string
	upsert      bool
	data        []byte
}

type fakeStorage struct {
	uploads   []storedUpload
	removed   [][]string
	uploadErr error
	removeErr error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string, upsert bool) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, storedUpload{bucket: bucket, path: path, contentType: contentType, upsert: upsert, data: data})
	return nil
}

func (f *fakeStorage) PublicURL(bucket, path string) string {
	return "https://store.example/storage/v1/object/public/" + bucket + "/" + path
}

func (f *fakeStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, paths)
	return nil
}

type fakeSub struct{ closed bool }

func (f *fakeSub) Close() error {
	f.closed = true
	return nil
}

type fakeRealtime struct {
	table string
	event backend.ChangeType
	fn    func(backend.Change)
	sub   *fakeSub
	err   error
}

func (f *fakeRealtime) Subscribe(ctx context.Context, table string, event backend.ChangeType, fn func(backend.Change)) (backend.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.table = table
	f.event = event
	f.fn = fn
	f.sub = &fakeSub{}
	return f.sub, nil
}
