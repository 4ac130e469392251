// Package querycache provides a keyed cache of remote query results with a
// per-key freshness state machine.
//
// # Overview
//
// Every key is either a resource collection ("products") or a single item
// ("products::p1"). Each key moves through the states
//
//	Empty -> Fetching -> Fresh | Error
//	Fresh | Error -> Stale (Invalidate)
//	Stale -> Fetching (next Read)
//
// Values live in a sturdyc store; the state of every key lives next to it.
// Values survive invalidation and failed refetches so callers can keep
// showing them while a new fetch runs.
//
// # Reading
//
// Read never blocks. It returns the current Snapshot and, if the entry is
// Empty or Stale, starts a background fetch:
//
//	snap := qc.Read(querycache.CollectionKey("products"), fetchProducts)
//	if snap.IsLoading && !snap.HasValue {
//		// show a spinner
//	}
//
// Fetch blocks until a value is available and joins a fetch that is already
// in flight for the same key. At most one fetch per key runs at any time.
//
// The generic helpers ReadAs and FetchAs wrap both calls with a typed Query:
//
//	q := querycache.Query[[]model.Product]{
//		Key:   querycache.CollectionKey("products"),
//		Fetch: products.GetAll,
//	}
//	items, err := querycache.FetchAs(ctx, qc, q)
//
// # Invalidation
//
// Invalidate marks keys stale after a write. A fetch already in flight for
// an invalidated key completes, but its result lands as Stale so that the
// next Read fetches again. Close drops every key, cancels fetches in flight
// and discards their results.
package querycache
