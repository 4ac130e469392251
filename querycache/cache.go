package querycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-inventory-cache/internal/cacheinfra"
	"github.com/goliatone/go-inventory-cache/internal/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrClosed is returned to waiters of a fetch that was still in flight when
// the cache was closed.
var ErrClosed = errors.New("querycache: cache closed")

// FetchFn loads the value for one key from the source of truth.
type FetchFn func(ctx context.Context) (any, error)

// Snapshot is a point-in-time view of one entry.
type Snapshot struct {
	Key       Key
	Value     any
	HasValue  bool
	State     State
	Err       error
	IsLoading bool
	IsError   bool
	// Version increases by one on every successful fetch of the key.
	Version   uint64
	UpdatedAt time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for fetch and invalidation events.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) {
		c.log = logger.OrNop(l)
	}
}

// WithObserver registers an observer for fetch and invalidation events.
func WithObserver(o Observer) Option {
	return func(c *Cache) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithClock overrides time.Now, used for staleness and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache is a keyed store of fetched values with a per-key freshness state
// and at most one in-flight fetch per key.
type Cache struct {
	cfg      Config
	log      *logger.Logger
	observer Observer
	now      func() time.Time

	mu   sync.RWMutex
	sess *session
}

// session owns everything Close discards at once. Fetches started in one
// session never write into the next.
type session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	store   *cacheinfra.Store
	entries *xsync.MapOf[Key, *entry]
}

type entry struct {
	key  Key
	sess *session

	mu          sync.Mutex
	state       State
	err         error
	hasValue    bool
	version     uint64
	updatedAt   time.Time
	call        *call
	invalidated bool
	closed      bool
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// New creates a Cache from cfg.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		cfg:      cfg,
		log:      logger.Nop(),
		observer: NopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	sess, err := c.newSession()
	if err != nil {
		return nil, err
	}
	c.sess = sess
	return c, nil
}

func (c *Cache) newSession() (*session, error) {
	store, err := cacheinfra.NewStore(c.cfg.toStore())
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		ctx:     ctx,
		cancel:  cancel,
		store:   store,
		entries: xsync.NewMapOf[Key, *entry](),
	}, nil
}

func (c *Cache) session() *session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess
}

func (s *session) entry(key Key) *entry {
	e, _ := s.entries.LoadOrCompute(key, func() *entry {
		return &entry{key: key, sess: s}
	})
	return e
}

// Read returns the current snapshot of key without blocking. When the entry
// is empty, stale, past its stale time or its value was evicted, a
// background fetch is started unless one is already in flight.
// An entry in the error state is not refetched by Read; use Refetch.
func (c *Cache) Read(key Key, fetch FetchFn) Snapshot {
	sess := c.session()
	e := sess.entry(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	if fetch != nil && c.needsFetch(e) {
		c.startFetch(e, fetch)
	}
	return c.snapshotLocked(e)
}

// Fetch returns the value of key, waiting for a fetch when the entry holds
// no fresh value. Concurrent callers share the in-flight fetch. ctx only
// bounds the wait; the shared fetch keeps running for the other callers.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch FetchFn) (any, error) {
	if fetch == nil {
		return nil, fmt.Errorf("querycache: nil fetch function for %s", key)
	}
	sess := c.session()
	e := sess.entry(key)

	e.mu.Lock()
	if e.state == StateFresh && !c.expired(e) {
		if v, ok := sess.store.Get(key.String()); ok {
			e.mu.Unlock()
			return v, nil
		}
	}
	if e.call == nil {
		c.startFetch(e, fetch)
	}
	cl := e.call
	e.mu.Unlock()

	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refetch starts a fetch for key regardless of its state, unless one is
// already in flight, and returns the resulting snapshot.
func (c *Cache) Refetch(key Key, fetch FetchFn) Snapshot {
	sess := c.session()
	e := sess.entry(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	if fetch != nil && e.call == nil {
		c.startFetch(e, fetch)
	}
	return c.snapshotLocked(e)
}

// Invalidate marks the given keys stale. Values are kept for display until
// the next read refetches them. A fetch in flight for an invalidated key
// still completes, but lands as stale.
func (c *Cache) Invalidate(keys ...Key) {
	sess := c.session()
	for _, key := range keys {
		e, ok := sess.entries.Load(key)
		if !ok {
			continue
		}

		e.mu.Lock()
		from := e.state
		switch e.state {
		case StateFresh, StateError:
			e.state = StateStale
		case StateFetching:
			e.invalidated = true
		}
		e.mu.Unlock()

		if from == StateEmpty || from == StateStale {
			continue
		}
		c.log.Debug("query invalidated", "key", key.String(), "from", from.String())
		c.observer.Invalidated(key, from)
	}
}

// InvalidateResource marks the collection of resource and every cached
// item of it stale.
func (c *Cache) InvalidateResource(resource string) {
	var keys []Key
	c.session().entries.Range(func(k Key, _ *entry) bool {
		if k.Resource == resource {
			keys = append(keys, k)
		}
		return true
	})
	c.Invalidate(keys...)
}

// Snapshot returns the current snapshot of key without starting a fetch.
func (c *Cache) Snapshot(key Key) Snapshot {
	e, ok := c.session().entries.Load(key)
	if !ok {
		return Snapshot{Key: key, State: StateEmpty}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return c.snapshotLocked(e)
}

// Keys lists every key the cache currently tracks.
func (c *Cache) Keys() []Key {
	var keys []Key
	c.session().entries.Range(func(k Key, _ *entry) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Close discards every entry and cancels fetches in flight. Their results
// are dropped and their waiters receive ErrClosed. The cache stays usable
// and starts out empty.
func (c *Cache) Close() error {
	next, err := c.newSession()
	if err != nil {
		return err
	}

	c.mu.Lock()
	prev := c.sess
	c.sess = next
	c.mu.Unlock()

	var dropped int
	prev.entries.Range(func(_ Key, e *entry) bool {
		e.mu.Lock()
		e.closed = true
		if e.call != nil {
			dropped++
		}
		e.mu.Unlock()
		return true
	})
	prev.cancel()
	prev.store.Clear()

	c.log.Info("query cache closed", "entries", prev.entries.Size(), "cancelled_fetches", dropped)
	return nil
}

// needsFetch must be called with e.mu held.
func (c *Cache) needsFetch(e *entry) bool {
	switch e.state {
	case StateEmpty, StateStale:
		return true
	case StateFresh:
		if c.expired(e) {
			e.state = StateStale
			return true
		}
		if _, ok := e.sess.store.Get(e.key.String()); !ok {
			e.hasValue = false
			return true
		}
	}
	return false
}

func (c *Cache) expired(e *entry) bool {
	return c.cfg.StaleTime > 0 && c.now().Sub(e.updatedAt) >= c.cfg.StaleTime
}

// startFetch must be called with e.mu held.
func (c *Cache) startFetch(e *entry, fetch FetchFn) {
	cl := &call{done: make(chan struct{})}
	e.call = cl
	e.state = StateFetching
	e.invalidated = false

	c.log.Debug("query fetch started", "key", e.key.String())
	c.observer.FetchStarted(e.key)
	go c.runFetch(e, cl, fetch)
}

func (c *Cache) runFetch(e *entry, cl *call, fetch FetchFn) {
	ctx := e.sess.ctx
	if c.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.FetchTimeout)
		defer cancel()
	}

	start := c.now()
	val, err := callFetch(ctx, fetch)
	elapsed := c.now().Sub(start)

	e.mu.Lock()
	if e.closed {
		e.call = nil
		e.mu.Unlock()
		c.log.Debug("query fetch discarded", "key", e.key.String())
		cl.err = ErrClosed
		close(cl.done)
		return
	}

	if err != nil {
		e.state = StateError
		e.err = err
	} else {
		e.sess.store.Set(e.key.String(), val)
		e.hasValue = true
		e.err = nil
		e.version++
		e.updatedAt = c.now()
		if e.invalidated {
			e.state = StateStale
		} else {
			e.state = StateFresh
		}
	}
	e.invalidated = false
	e.call = nil
	state := e.state
	e.mu.Unlock()

	if err != nil {
		c.log.Warn("query fetch failed", "key", e.key.String(), "elapsed", elapsed, "error", err)
		c.observer.FetchFailed(e.key, elapsed, err)
	} else {
		c.log.Debug("query fetch succeeded", "key", e.key.String(), "elapsed", elapsed, "state", state.String())
		c.observer.FetchSucceeded(e.key, elapsed)
	}

	cl.val, cl.err = val, err
	close(cl.done)
}

func callFetch(ctx context.Context, fetch FetchFn) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val, err = nil, fmt.Errorf("querycache: fetch panicked: %v", r)
		}
	}()
	return fetch(ctx)
}

// snapshotLocked must be called with e.mu held.
func (c *Cache) snapshotLocked(e *entry) Snapshot {
	snap := Snapshot{
		Key:       e.key,
		State:     e.state,
		Err:       e.err,
		IsLoading: e.state == StateFetching,
		IsError:   e.err != nil,
		Version:   e.version,
		UpdatedAt: e.updatedAt,
	}
	if e.hasValue {
		snap.Value, snap.HasValue = e.sess.store.Get(e.key.String())
	}
	return snap
}
