package querycache

// State is the freshness of a cache entry.
//
//	Empty -> Fetching -> {Fresh, Error}
//	Fresh -> Stale (invalidation) -> Fetching (next read) -> {Fresh, Error}
type State int

const (
	StateEmpty State = iota
	StateFetching
	StateFresh
	StateStale
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateFetching:
		return "fetching"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
