package querycache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidResultType is returned when a cached value does not have the
// type a typed query expects.
var ErrInvalidResultType = errors.New("querycache: invalid result type")

// Query pairs a key with a typed fetch function.
type Query[T any] struct {
	Key   Key
	Fetch func(ctx context.Context) (T, error)
}

func (q Query[T]) fetchFn() FetchFn {
	if q.Fetch == nil {
		return nil
	}
	return func(ctx context.Context) (any, error) {
		return q.Fetch(ctx)
	}
}

// View is the typed form of a Snapshot.
type View[T any] struct {
	Data      T
	HasData   bool
	State     State
	Err       error
	IsLoading bool
	IsError   bool
	Version   uint64
	UpdatedAt time.Time
}

// ReadAs is the typed form of Cache.Read.
func ReadAs[T any](c *Cache, q Query[T]) View[T] {
	return viewOf[T](c.Read(q.Key, q.fetchFn()))
}

// RefetchAs is the typed form of Cache.Refetch.
func RefetchAs[T any](c *Cache, q Query[T]) View[T] {
	return viewOf[T](c.Refetch(q.Key, q.fetchFn()))
}

// SnapshotAs is the typed form of Cache.Snapshot.
func SnapshotAs[T any](c *Cache, key Key) View[T] {
	return viewOf[T](c.Snapshot(key))
}

// FetchAs is the typed form of Cache.Fetch.
func FetchAs[T any](ctx context.Context, c *Cache, q Query[T]) (T, error) {
	var zero T
	result, err := c.Fetch(ctx, q.Key, q.fetchFn())
	if err != nil {
		return zero, err
	}
	return cast[T](q.Key, result)
}

func viewOf[T any](snap Snapshot) View[T] {
	v := View[T]{
		State:     snap.State,
		Err:       snap.Err,
		IsLoading: snap.IsLoading,
		IsError:   snap.IsError,
		Version:   snap.Version,
		UpdatedAt: snap.UpdatedAt,
	}
	if !snap.HasValue {
		return v
	}
	data, err := cast[T](snap.Key, snap.Value)
	if err != nil {
		v.Err = err
		v.IsError = true
		return v
	}
	v.Data, v.HasData = data, true
	return v
}

func cast[T any](key Key, value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, want %T", ErrInvalidResultType, key, value, zero)
	}
	return typed, nil
}
