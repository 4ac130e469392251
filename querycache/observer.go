package querycache

import "time"

// Observer is notified of fetch and invalidation events. Implementations
// must be safe for concurrent use and must not block.
type Observer interface {
	FetchStarted(key Key)
	FetchSucceeded(key Key, elapsed time.Duration)
	FetchFailed(key Key, elapsed time.Duration, err error)
	Invalidated(key Key, from State)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) FetchStarted(Key)                      {}
func (NopObserver) FetchSucceeded(Key, time.Duration)     {}
func (NopObserver) FetchFailed(Key, time.Duration, error) {}
func (NopObserver) Invalidated(Key, State)                {}
