// Package session holds the authentication state of each browser using the
// console. The state is persisted in a repository.Storage so that it
// survives across requests the way a single-page app's localStorage
// survives reloads.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cayiba/cayiba-admin/internal/crypto"
	"github.com/cayiba/cayiba-admin/internal/model"
	"github.com/cayiba/cayiba-admin/internal/repository"
)

// Storage keys. They are always written and purged together.
const (
	KeyAuthStorage = "auth-storage"
	KeyToken       = "token"
	KeyUser        = "user"
)

var persistedKeys = []string{KeyAuthStorage, KeyToken, KeyUser}

// Snapshot is a read-only copy of a Store's state.
type Snapshot struct {
	User            *model.User
	Token           string
	IsAuthenticated bool
	Version         uint64
}

// persisted is the JSON document stored under KeyAuthStorage.
type persisted struct {
	State   model.Session `json:"state"`
	Version int           `json:"version"`
}

// Store is the session state of one browser. SetAuth, Logout,
// InitializeAuth and Purge are the only mutation paths.
type Store struct {
	sid     string
	storage repository.Storage
	now     func() time.Time
	log     *slog.Logger

	mu      sync.RWMutex
	state   model.Session
	version uint64
}

// SID returns the browser session id the store belongs to.
func (s *Store) SID() string {
	return s.sid
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Token:           s.state.Token,
		IsAuthenticated: s.state.IsAuthenticated,
		Version:         s.version,
	}
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	return snap
}

// Token returns the current token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// IsAuthenticated reports whether the browser is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// SetAuth records a successful login. The token is trusted as-is.
func (s *Store) SetAuth(ctx context.Context, user model.User, token string) error {
	next := model.Session{User: &user, Token: token, IsAuthenticated: true}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, s.sid, KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, s.sid, KeyUser, string(userJSON)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.apply(next)
	s.log.Info("session authenticated", "sid", shortSID(s.sid), "email", user.Email)
	return nil
}

// Logout purges storage and resets the state. Callers must follow it with a
// full navigation to the login screen.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.Purge(ctx); err != nil {
		return err
	}
	s.log.Info("session logged out", "sid", shortSID(s.sid))
	return nil
}

// Purge removes every persisted key and resets the state to logged out.
// The in-memory state is reset even when storage fails.
func (s *Store) Purge(ctx context.Context) error {
	s.apply(model.Session{})
	if err := s.storage.Delete(ctx, s.sid, persistedKeys...); err != nil {
		return fmt.Errorf("purge session storage: %w", err)
	}
	return nil
}

// InitializeAuth reconciles the state with the persisted token. The token
// payload is decoded without verifying its signature: the claims are only
// used to restore the console session, the API authorizes every call on its
// own. Expired or undecodable tokens are purged. Safe to call repeatedly.
func (s *Store) InitializeAuth(ctx context.Context) error {
	token, err := s.storage.Get(ctx, s.sid, KeyToken)
	if errors.Is(err, repository.ErrKeyNotFound) {
		if s.IsAuthenticated() {
			return s.Purge(ctx)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}

	claims, err := crypto.DecodeClaims(token)
	if err != nil || claims.Expired(s.now()) {
		s.log.Info("discarding persisted token", "sid", shortSID(s.sid), "reason", expiryReason(err))
		return s.Purge(ctx)
	}

	next := model.Session{User: claims.Identity(), Token: token, IsAuthenticated: true}
	if s.equal(next) {
		return nil
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.apply(next)
	return nil
}

func expiryReason(err error) string {
	if err != nil {
		return err.Error()
	}
	return "expired"
}

func (s *Store) persist(ctx context.Context, state model.Session) error {
	doc, err := json.Marshal(persisted{State: state})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Set(ctx, s.sid, KeyAuthStorage, string(doc)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) apply(next model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sameSession(s.state, next) {
		return
	}
	s.state = next
	s.version++
}

func (s *Store) equal(other model.Session) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sameSession(s.state, other)
}

func sameSession(a, b model.Session) bool {
	if a.Token != b.Token || a.IsAuthenticated != b.IsAuthenticated {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}

func shortSID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
