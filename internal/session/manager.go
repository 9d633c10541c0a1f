package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cayiba/cayiba-admin/internal/repository"
)

// Manager rehydrates browser stores from storage.
type Manager struct {
	storage repository.Storage
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger handed to every store.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates a Manager backed by storage.
func NewManager(storage repository.Storage, opts ...Option) *Manager {
	m := &Manager{storage: storage, now: time.Now, log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the store of browser sid with the state it persisted last.
// Unreadable state is treated as logged out.
func (m *Manager) Load(ctx context.Context, sid string) (*Store, error) {
	s := &Store{sid: sid, storage: m.storage, now: m.now, log: m.log}

	doc, err := m.storage.Get(ctx, sid, KeyAuthStorage)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var p persisted
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		m.log.Warn("ignoring unreadable session state", "sid", shortSID(sid), "error", err)
		return s, nil
	}
	if p.State.IsAuthenticated && p.State.Token != "" && p.State.User != nil {
		s.state = p.State
	}
	return s, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying store.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, store)
}

// FromContext returns the store carried by ctx.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok
}
