package cache

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

const defaultLoadTimeout = 5 * time.Minute

var ErrLoaderRequired = crerr.New("cache loader is required")

// Loader produces the value stored under a key.
type Loader func(context.Context) (any, error)

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store keeps one (value, fetched-at) pair per key. A value is stale once ttl
// has elapsed since it was fetched; a ttl <= 0 never expires.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]entry
	ttl         time.Duration
	loadTimeout time.Duration
	clock       clockwork.Clock
	flight      singleflight.Group
}

type Option func(*Store)

// WithLoadTimeout bounds a shared load. Values <= 0 keep the default.
func WithLoadTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.loadTimeout = timeout
		}
	}
}

func NewStore(ttl time.Duration, clock clockwork.Clock, opts ...Option) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Store{
		entries:     make(map[string]entry),
		ttl:         ttl,
		loadTimeout: defaultLoadTimeout,
		clock:       clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value under key when present and fresh.
func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, false
	}
	return e.value, true
}

// Peek returns the value under key regardless of age.
func (s *Store) Peek(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return e.value, ok
}

// IsStale reports whether key is missing or older than the ttl.
func (s *Store) IsStale(key string) bool {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return !ok || s.expired(e)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{value: value, fetchedAt: s.clock.Now()}
	s.mu.Unlock()
}

// Refresh runs loader and stores its value, replacing any previous value.
// Concurrent refreshes of the same key share one loader call, which runs
// detached from any single caller's cancellation and is bounded by the load
// timeout. A caller whose ctx ends stops waiting. On error the previous value
// is left in place.
func (s *Store) Refresh(ctx context.Context, key string, loader Loader) (any, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if key == "" {
		return loader(ctx)
	}

	results := s.flight.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		loaded, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(loadCtx, key, loaded)
		return loaded, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

// GetOrLoad returns the fresh value under key, refreshing it first when stale.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader Loader) (any, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}
	return s.Refresh(ctx, key, loader)
}

func (s *Store) expired(e entry) bool {
	if s.ttl <= 0 {
		return false
	}
	return !s.clock.Now().Before(e.fetchedAt.Add(s.ttl))
}
