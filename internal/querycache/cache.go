// Package querycache keeps the results of API reads for one browser. Reads
// are deduplicated while in flight, results are stored per key, and a read
// that takes longer than its budget falls back to what the browser saw last.
package querycache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cayiba/cayiba-admin/internal/metrics"
)

// Key identifies a query: the scope names the screen or resource, Params
// the serialized parameters.
type Key struct {
	Scope  string
	Params string
}

// NewKey builds a key from a scope and its parameter parts.
func NewKey(scope string, params ...string) Key {
	return Key{Scope: scope, Params: strings.Join(params, "\x1f")}
}

func (k Key) String() string {
	return k.Scope + "\x1e" + k.Params
}

type entry struct {
	data      any
	err       error
	fetchedAt time.Time
}

// generation counts the invalidations a key has seen, scope-wide and of the
// key itself. A fetch only stores its result when the generation it started
// under is still current.
type generation struct {
	scope uint64
	key   uint64
}

// Cache is the query cache of one browser.
type Cache struct {
	ctx    context.Context
	cancel context.CancelFunc

	group     singleflight.Group
	staleTime time.Duration
	now       func() time.Time

	mu          sync.Mutex
	entries     map[Key]*entry
	latest      map[string]Key
	placeholder map[string]any
	scopeGen    map[string]uint64
	keyGen      map[Key]uint64
	lastUsed    time.Time
}

// New creates a Cache. Entries younger than staleTime are served without a
// refetch.
func New(staleTime time.Duration) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		ctx:         ctx,
		cancel:      cancel,
		staleTime:   staleTime,
		now:         time.Now,
		entries:     make(map[Key]*entry),
		latest:      make(map[string]Key),
		placeholder: make(map[string]any),
		scopeGen:    make(map[string]uint64),
		keyGen:      make(map[Key]uint64),
		lastUsed:    time.Now(),
	}
}

// Result is the outcome of a Query.
type Result[T any] struct {
	Data T
	Err  error
	// HasData is false when nothing could be shown yet.
	HasData bool
	// Loading reports that a fetch for the key is still running and Data
	// comes from an earlier read.
	Loading bool
	// Placeholder reports that Data belongs to other parameters of the
	// same scope.
	Placeholder bool
}

// Fetcher loads the value of a key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Query returns the value of key. A fresh entry is served as is. Otherwise a
// fetch is started, or joined when one is already running, and awaited for
// at most budget; a budget of zero waits for the fetch to finish. When the
// budget runs out the previous value of the key, or the last page shown for
// the scope, is returned with Loading set.
//
// The fetch runs detached from ctx cancellation so a browser that navigates
// away does not abort it; it is cancelled when the cache is dropped. Values
// of ctx such as the session remain visible to fetch.
func Query[T any](ctx context.Context, c *Cache, key Key, budget time.Duration, fetch Fetcher[T]) Result[T] {
	c.mu.Lock()
	c.lastUsed = c.now()
	c.latest[key.Scope] = key
	prev, cached := c.entries[key]
	if cached && prev.err == nil && c.now().Sub(prev.fetchedAt) < c.staleTime {
		data := prev.data
		c.mu.Unlock()
		metrics.CacheLookups.WithLabelValues("fresh").Inc()
		return shown[T](c, key, data)
	}
	gen := c.generationOf(key)
	c.mu.Unlock()

	if cached {
		metrics.CacheLookups.WithLabelValues("stale").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	// Fetches started before an invalidation are not joined afterwards.
	flight := fmt.Sprintf("%s\x1f%d.%d", key, gen.scope, gen.key)
	ch := c.group.DoChan(flight, func() (any, error) {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		stop := context.AfterFunc(c.ctx, cancel)
		defer stop()
		defer cancel()

		data, err := fetch(fctx)
		c.store(key, gen, data, err)
		return data, err
	})

	var timeout <-chan time.Time
	if budget > 0 {
		timer := time.NewTimer(budget)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return Result[T]{Err: res.Err}
		}
		return shown[T](c, key, res.Val)
	case <-timeout:
	case <-ctx.Done():
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.err == nil {
		return Result[T]{Data: e.data.(T), HasData: true, Loading: true}
	}
	if data, ok := c.placeholder[key.Scope]; ok {
		if v, ok := data.(T); ok {
			return Result[T]{Data: v, HasData: true, Loading: true, Placeholder: true}
		}
	}
	return Result[T]{Loading: true}
}

// shown records data as the page displayed for the scope, unless a newer
// key of the scope has been requested since.
func shown[T any](c *Cache, key Key, data any) Result[T] {
	c.mu.Lock()
	if c.latest[key.Scope] == key {
		c.placeholder[key.Scope] = data
	}
	c.mu.Unlock()
	return Result[T]{Data: data.(T), HasData: true}
}

func (c *Cache) generationOf(key Key) generation {
	return generation{scope: c.scopeGen[key.Scope], key: c.keyGen[key]}
}

func (c *Cache) store(key Key, gen generation, data any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx.Err() != nil || c.generationOf(key) != gen {
		return
	}
	c.entries[key] = &entry{data: data, err: err, fetchedAt: c.now()}
}

// Invalidate removes the entries of scope. With params, only the entry of
// exactly those parameters is removed. The next read of a removed key
// fetches again, and fetches already running for it no longer store their
// result.
func (c *Cache) Invalidate(scope string, params ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(params) > 0 {
		key := NewKey(scope, params...)
		c.keyGen[key]++
		delete(c.entries, key)
		return
	}
	c.scopeGen[scope]++
	for k := range c.entries {
		if k.Scope == scope {
			delete(c.entries, k)
		}
	}
}

// Peek returns the stored value of key regardless of its age.
func Peek[T any](c *Cache, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key]
	if !ok || e.err != nil {
		return zero, false
	}
	v, ok := e.data.(T)
	return v, ok
}

// Drop cancels running fetches and forgets every entry.
func (c *Cache) Drop() {
	c.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.latest = make(map[string]Key)
	c.placeholder = make(map[string]any)
}

func (c *Cache) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}
