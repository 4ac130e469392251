package querycache

import (
	"context"
	"errors"
	"testing"
)

func TestFetchAs_ValidResult(t *testing.T) {
	c := newTestCache(t)
	q := Query[[]string]{
		Key: CollectionKey("products"),
		Fetch: func(ctx context.Context) ([]string, error) {
			return []string{"p1", "p2"}, nil
		},
	}

	result, err := FetchAs(context.Background(), c, q)
	if err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if len(result) != 2 || result[0] != "p1" {
		t.Errorf("expected [p1 p2] but got: %v", result)
	}
}

func TestFetchAs_NilInterfaceNoPanic(t *testing.T) {
	type SomeInterface interface {
		DoSomething() string
	}

	c := newTestCache(t)
	q := Query[SomeInterface]{
		Key: ItemKey("products", "p1"),
		Fetch: func(ctx context.Context) (SomeInterface, error) {
			return nil, nil
		},
	}

	result, err := FetchAs(context.Background(), c, q)
	if err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result but got: %v", result)
	}
}

func TestFetchAs_TypeAssertionFailure(t *testing.T) {
	c := newTestCache(t)
	key := CollectionKey("products")

	// another caller stored a value of a different type under the same key
	if _, err := c.Fetch(context.Background(), key, func(context.Context) (any, error) {
		return "wrong-type", nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := FetchAs(context.Background(), c, Query[int]{
		Key:   key,
		Fetch: func(context.Context) (int, error) { return 42, nil },
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType but got: %v", err)
	}
	if result != 0 {
		t.Errorf("expected zero value (0) but got: %v", result)
	}

	view := SnapshotAs[int](c, key)
	if !view.IsError || !errors.Is(view.Err, ErrInvalidResultType) {
		t.Errorf("expected view to carry ErrInvalidResultType, got %+v", view)
	}
	if view.HasData {
		t.Error("expected no typed data on mismatch")
	}
}

func TestFetchAs_PropagatesError(t *testing.T) {
	c := newTestCache(t)
	boom := errors.New("boom")

	_, err := FetchAs(context.Background(), c, Query[string]{
		Key:   CollectionKey("categories"),
		Fetch: func(context.Context) (string, error) { return "", boom },
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom but got: %v", err)
	}
}

func TestReadAs_View(t *testing.T) {
	c := newTestCache(t)
	q := Query[string]{
		Key:   CollectionKey("categories"),
		Fetch: func(context.Context) (string, error) { return "ok", nil },
	}

	view := ReadAs(c, q)
	if view.HasData {
		t.Errorf("expected no data on first read, got %q", view.Data)
	}
	if view.State != StateFetching || !view.IsLoading {
		t.Errorf("expected loading view, got %+v", view)
	}

	if _, err := FetchAs(context.Background(), c, q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view = ReadAs(c, q)
	if !view.HasData || view.Data != "ok" {
		t.Errorf("expected data ok, got %+v", view)
	}
	if view.State != StateFresh || view.IsLoading || view.IsError {
		t.Errorf("expected fresh idle view, got %+v", view)
	}
	if view.Version != 1 {
		t.Errorf("expected version 1, got %d", view.Version)
	}
}

func TestReadAs_NilFetchIsIdle(t *testing.T) {
	c := newTestCache(t)
	view := ReadAs(c, Query[string]{Key: ItemKey("products", "")})
	if view.State != StateEmpty || view.IsLoading {
		t.Errorf("expected idle empty view, got %+v", view)
	}
}
