package mutation

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-inventory-cache/internal/logger"
	"github.com/goliatone/go-inventory-cache/querycache"
)

// Invalidator marks cache keys stale. *querycache.Cache implements it.
type Invalidator interface {
	Invalidate(keys ...querycache.Key)
}

// Kind is the type of write a mutation performs.
type Kind int

const (
	KindCreate Kind = iota
	KindUpdate
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation describes one write against a resource.
type Mutation[T any] struct {
	Resource string
	Kind     Kind
	// ID is the affected item. Required for updates and deletes.
	ID string
	// Also lists keys to invalidate on success in addition to the
	// resource's own.
	Also []querycache.Key
	Do   func(ctx context.Context) (T, error)
}

// Keys returns the cache keys a successful run invalidates: the resource
// collection, the item for updates and deletes, then Also.
func (m Mutation[T]) Keys() []querycache.Key {
	keys := []querycache.Key{querycache.CollectionKey(m.Resource)}
	if m.Kind != KindCreate && m.ID != "" {
		keys = append(keys, querycache.ItemKey(m.Resource, m.ID))
	}
	return append(keys, m.Also...)
}

// Hooks are caller continuations. OnSuccess runs after invalidation.
type Hooks[T any] struct {
	OnSuccess func(T)
	OnError   func(error)
}

// ErrNoOperation is returned when a mutation has no Do function.
var ErrNoOperation = errors.New("mutation: no operation")

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) {
		o.log = logger.OrNop(l)
	}
}

// Orchestrator runs mutations and invalidates the cache keys they affect.
type Orchestrator struct {
	inv Invalidator
	log *logger.Logger
}

// New creates an Orchestrator invalidating through inv.
func New(inv Invalidator, opts ...Option) *Orchestrator {
	o := &Orchestrator{inv: inv, log: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes m. On success the keys of m are invalidated and
// hooks.OnSuccess is called. On failure nothing is invalidated,
// hooks.OnError is called and the error is returned unchanged.
func Run[T any](ctx context.Context, o *Orchestrator, m Mutation[T], hooks Hooks[T]) (T, error) {
	var zero T
	if m.Do == nil {
		if hooks.OnError != nil {
			hooks.OnError(ErrNoOperation)
		}
		return zero, ErrNoOperation
	}

	start := time.Now()
	result, err := m.Do(ctx)
	if err != nil {
		o.log.Warn("mutation failed",
			"resource", m.Resource,
			"kind", m.Kind.String(),
			"id", m.ID,
			"elapsed", time.Since(start),
			"error", err,
		)
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
		return zero, err
	}

	keys := m.Keys()
	if o.inv != nil {
		o.inv.Invalidate(keys...)
	}
	o.log.Info("mutation applied",
		"resource", m.Resource,
		"kind", m.Kind.String(),
		"id", m.ID,
		"invalidated", len(keys),
		"elapsed", time.Since(start),
	)

	if hooks.OnSuccess != nil {
		hooks.OnSuccess(result)
	}
	return result, nil
}
