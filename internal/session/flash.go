package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/cayiba/cayiba-admin/internal/repository"
)

// Flash notices live in a bucket of their own so that the browser's
// authentication bucket only ever holds the three persisted keys.
const (
	flashPrefix = "flash:"
	KeyFlash    = "notice"
)

func flashBucket(sid string) string {
	return flashPrefix + sid
}

// SetFlash stores msg to be shown once on the next screen.
func (s *Store) SetFlash(ctx context.Context, msg string) error {
	if err := s.storage.Set(ctx, flashBucket(s.sid), KeyFlash, msg); err != nil {
		return fmt.Errorf("set flash: %w", err)
	}
	return nil
}

// TakeFlash returns and clears the pending notice.
func (s *Store) TakeFlash(ctx context.Context) (string, error) {
	bucket := flashBucket(s.sid)
	msg, err := s.storage.Get(ctx, bucket, KeyFlash)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get flash: %w", err)
	}
	if err := s.storage.Delete(ctx, bucket, KeyFlash); err != nil {
		return "", fmt.Errorf("clear flash: %w", err)
	}
	return msg, nil
}
