package querycache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func constant(calls *atomic.Int32, v string) Fetcher[string] {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestQueryFetchesOnMiss(t *testing.T) {
	c := New(0)
	var calls atomic.Int32

	res := Query(context.Background(), c, NewKey("ads", "1"), 0, constant(&calls, "page-1"))

	require.NoError(t, res.Err)
	assert.True(t, res.HasData)
	assert.False(t, res.Loading)
	assert.Equal(t, "page-1", res.Data)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryServesFreshEntry(t *testing.T) {
	c := New(time.Minute)
	var calls atomic.Int32
	key := NewKey("ads", "1")

	Query(context.Background(), c, key, 0, constant(&calls, "a"))
	res := Query(context.Background(), c, key, 0, constant(&calls, "b"))

	assert.Equal(t, "a", res.Data)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryRefetchesStaleEntry(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }
	var calls atomic.Int32
	key := NewKey("ads", "1")

	Query(context.Background(), c, key, 0, constant(&calls, "a"))
	now = now.Add(2 * time.Minute)
	res := Query(context.Background(), c, key, 0, constant(&calls, "b"))

	assert.Equal(t, "b", res.Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryDeduplicatesInFlight(t *testing.T) {
	c := New(0)
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]Result[string], 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Query(context.Background(), c, NewKey("ads", "1"), 0, fetch)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "v", r.Data)
	}
}

func TestQueryErrorIsNotCachedAsFresh(t *testing.T) {
	c := New(time.Minute)
	key := NewKey("ads", "1")
	boom := errors.New("boom")

	res := Query(context.Background(), c, key, 0, func(context.Context) (string, error) { return "", boom })
	require.ErrorIs(t, res.Err, boom)
	assert.False(t, res.HasData)

	var calls atomic.Int32
	res = Query(context.Background(), c, key, 0, constant(&calls, "ok"))
	assert.NoError(t, res.Err)
	assert.Equal(t, "ok", res.Data)
}

func TestQueryFallsBackToPreviousPage(t *testing.T) {
	c := New(0)
	var calls atomic.Int32
	Query(context.Background(), c, NewKey("ads", "page=1"), 0, constant(&calls, "page-1"))

	release := make(chan struct{})
	defer close(release)
	slow := func(context.Context) (string, error) {
		<-release
		return "page-2", nil
	}

	res := Query(context.Background(), c, NewKey("ads", "page=2"), 20*time.Millisecond, slow)

	assert.True(t, res.Loading)
	assert.True(t, res.Placeholder)
	assert.True(t, res.HasData)
	assert.Equal(t, "page-1", res.Data)
}

func TestQueryFallbackWithoutPlaceholder(t *testing.T) {
	c := New(0)
	release := make(chan struct{})
	defer close(release)

	res := Query(context.Background(), c, NewKey("ads", "1"), 10*time.Millisecond, func(context.Context) (string, error) {
		<-release
		return "late", nil
	})

	assert.True(t, res.Loading)
	assert.False(t, res.HasData)
}

func TestSupersededFetchDoesNotMovePlaceholder(t *testing.T) {
	c := New(0)
	var calls atomic.Int32
	Query(context.Background(), c, NewKey("ads", "page=1"), 0, constant(&calls, "page-1"))

	release := make(chan struct{})
	done := make(chan Result[string])
	go func() {
		done <- Query(context.Background(), c, NewKey("ads", "page=2"), 0, func(context.Context) (string, error) {
			<-release
			return "page-2", nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	// The browser moves on to page 3 before page 2 arrives.
	blocked := make(chan struct{})
	defer close(blocked)
	res := Query(context.Background(), c, NewKey("ads", "page=3"), 10*time.Millisecond, func(context.Context) (string, error) {
		<-blocked
		return "page-3", nil
	})
	assert.Equal(t, "page-1", res.Data)

	close(release)
	late := <-done
	assert.Equal(t, "page-2", late.Data)

	res = Query(context.Background(), c, NewKey("ads", "page=3"), 10*time.Millisecond, func(context.Context) (string, error) {
		return "unused", nil
	})
	assert.Equal(t, "page-1", res.Data)
	assert.True(t, res.Placeholder)
}

func TestQueryKeepsContextValues(t *testing.T) {
	c := New(0)
	ctx := context.WithValue(context.Background(), ctxKey{}, "store")

	res := Query(ctx, c, NewKey("ads"), 0, func(ctx context.Context) (string, error) {
		v, _ := ctx.Value(ctxKey{}).(string)
		return v, nil
	})

	assert.Equal(t, "store", res.Data)
}

func TestDropCancelsFetch(t *testing.T) {
	c := New(0)
	started := make(chan struct{})
	done := make(chan error, 1)

	go Query(context.Background(), c, NewKey("ads"), 0, func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		done <- ctx.Err()
		return "", ctx.Err()
	})
	<-started
	c.Drop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("fetch was not cancelled")
	}
	_, ok := Peek[string](c, NewKey("ads"))
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := New(time.Hour)
	var calls atomic.Int32
	ctx := context.Background()

	Query(ctx, c, NewKey("advertisement", "a1"), 0, constant(&calls, "a1"))
	Query(ctx, c, NewKey("advertisement", "a2"), 0, constant(&calls, "a2"))

	c.Invalidate("advertisement", "a1")
	_, ok := Peek[string](c, NewKey("advertisement", "a1"))
	assert.False(t, ok)
	_, ok = Peek[string](c, NewKey("advertisement", "a2"))
	assert.True(t, ok)

	c.Invalidate("advertisement")
	_, ok = Peek[string](c, NewKey("advertisement", "a2"))
	assert.False(t, ok)
}

func TestInvalidateDiscardsRunningFetch(t *testing.T) {
	for name, invalidate := range map[string]func(c *Cache){
		"key":   func(c *Cache) { c.Invalidate("advertisement", "a1") },
		"scope": func(c *Cache) { c.Invalidate("advertisement") },
	} {
		t.Run(name, func(t *testing.T) {
			c := New(time.Hour)
			key := NewKey("advertisement", "a1")
			started := make(chan struct{})
			release := make(chan struct{})
			done := make(chan Result[string], 1)

			go func() {
				done <- Query(context.Background(), c, key, 0, func(context.Context) (string, error) {
					close(started)
					<-release
					return "ACTIVE", nil
				})
			}()
			<-started
			invalidate(c)

			var calls atomic.Int32
			res := Query(context.Background(), c, key, 0, constant(&calls, "BLOCKED"))
			assert.Equal(t, "BLOCKED", res.Data)
			assert.Equal(t, int32(1), calls.Load())

			close(release)
			assert.Equal(t, "ACTIVE", (<-done).Data)

			got, ok := Peek[string](c, key)
			require.True(t, ok)
			assert.Equal(t, "BLOCKED", got)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(0, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	r.Get("b")
	assert.Equal(t, 2, r.Len())

	r.Drop("a")
	assert.Equal(t, 1, r.Len())
	assert.NotSame(t, a, r.Get("a"))
	assert.Error(t, a.ctx.Err())
}

func TestRegistryEvictsIdle(t *testing.T) {
	r := NewRegistry(0, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c := r.Get("a")

	assert.Zero(t, r.evict(time.Now()))
	assert.Equal(t, 1, r.evict(time.Now().Add(2*time.Minute)))
	assert.Zero(t, r.Len())
	assert.Error(t, c.ctx.Err())
}
