package repository

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("storage key not found")

// Storage is the durable key/value space of one browser, addressed by its
// session id. It plays the role localStorage plays for a single-page app.
type Storage interface {
	// Get returns the value under key, or ErrKeyNotFound.
	Get(ctx context.Context, sid, key string) (string, error)
	// Set stores value under key.
	Set(ctx context.Context, sid, key, value string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, sid string, keys ...string) error
}
