package querycache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cayiba/cayiba-admin/internal/metrics"
)

// Registry holds one Cache per browser session id and evicts caches that
// have not been used for idleTTL.
type Registry struct {
	mu        sync.Mutex
	caches    map[string]*Cache
	staleTime time.Duration
	idleTTL   time.Duration
	log       *slog.Logger
}

// NewRegistry creates a Registry. Call Run to start idle eviction.
func NewRegistry(staleTime, idleTTL time.Duration, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		caches:    make(map[string]*Cache),
		staleTime: staleTime,
		idleTTL:   idleTTL,
		log:       log,
	}
}

// Get returns the cache of sid, creating it on first use.
func (r *Registry) Get(sid string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.caches[sid]
	if !ok {
		c = New(r.staleTime)
		r.caches[sid] = c
		metrics.CacheWorkspaces.Set(float64(len(r.caches)))
	}
	return c
}

// Drop disposes of the cache of sid.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	c, ok := r.caches[sid]
	delete(r.caches, sid)
	metrics.CacheWorkspaces.Set(float64(len(r.caches)))
	r.mu.Unlock()

	if ok {
		c.Drop()
	}
}

// Len returns the number of live caches.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.caches)
}

// Run evicts idle caches every interval until ctx is done, then drops all
// remaining caches.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.dropAll()
			return
		case now := <-ticker.C:
			if n := r.evict(now); n > 0 {
				r.log.Debug("evicted idle query caches", "count", n)
			}
		}
	}
}

func (r *Registry) evict(now time.Time) int {
	var idle []*Cache

	r.mu.Lock()
	for sid, c := range r.caches {
		if now.Sub(c.idleSince()) > r.idleTTL {
			idle = append(idle, c)
			delete(r.caches, sid)
		}
	}
	metrics.CacheWorkspaces.Set(float64(len(r.caches)))
	r.mu.Unlock()

	for _, c := range idle {
		c.Drop()
	}
	return len(idle)
}

func (r *Registry) dropAll() {
	r.mu.Lock()
	caches := r.caches
	r.caches = make(map[string]*Cache)
	metrics.CacheWorkspaces.Set(0)
	r.mu.Unlock()

	for _, c := range caches {
		c.Drop()
	}
}
