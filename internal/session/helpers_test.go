package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var errBackend = errors.New("connection refused")

// countingStore wraps a Store and counts reads.
type countingStore struct {
	Store
	gets    atomic.Int64
	extends atomic.Int64
	deletes atomic.Int64
}

func (s *countingStore) Get(ctx context.Context, id string) (*Session, error) {
	s.gets.Add(1)
	return s.Store.Get(ctx, id)
}

func (s *countingStore) Extend(ctx context.Context, id string, expiresAt time.Time) error {
	s.extends.Add(1)
	return s.Store.Extend(ctx, id, expiresAt)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.deletes.Add(1)
	return s.Store.Delete(ctx, id)
}

// failingStore lets individual operations fail.
type failingStore struct {
	Store
	getErr    error
	extendErr error
	deleteErr error
}

func (s *failingStore) Get(ctx context.Context, id string) (*Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, id)
}

func (s *failingStore) Extend(ctx context.Context, id string, expiresAt time.Time) error {
	if s.extendErr != nil {
		return s.extendErr
	}
	return s.Store.Extend(ctx, id, expiresAt)
}

func (s *failingStore) Delete(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.Delete(ctx, id)
}

type failingUserStore struct {
	err error
}

func (s failingUserStore) GetUser(context.Context, string) (*User, error) {
	return nil, s.err
}

// recordingJar is a CookieJar that remembers every cookie written.
type recordingJar struct {
	mu      sync.Mutex
	cookies map[string]string
	written []*http.Cookie
}

func newRecordingJar(cookies map[string]string) *recordingJar {
	if cookies == nil {
		cookies = map[string]string{}
	}
	return &recordingJar{cookies: cookies}
}

func (j *recordingJar) Cookie(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.cookies[name]
	return v, ok
}

func (j *recordingJar) SetCookie(c *http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.written = append(j.written, c)
}

func (j *recordingJar) Written() []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*http.Cookie(nil), j.written...)
}

type fixture struct {
	store   *MemoryStore
	users   *MemoryUserStore
	manager *Manager
	logs    *bytes.Buffer
}

func newFixture(store Store, users UserStore) (*Validator, *fixture) {
	mem := NewMemoryStore()
	memUsers := NewMemoryUserStore(User{ID: "user_42", Email: "ada@example.com", Name: "Ada"})
	if store == nil {
		store = mem
	}
	if users == nil {
		users = memUsers
	}

	manager := NewManager(store, DefaultPolicy())
	manager.now = func() time.Time { return testNow }

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	v := NewValidator(manager, users, NewCodec(DefaultCookieName, true), logger)
	return v, &fixture{store: mem, users: memUsers, manager: manager, logs: logs}
}
