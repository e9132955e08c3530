package client

import (
	"context"
	"sync"
)

// QueryState describes where a query is in its lifecycle.
type QueryState int

const (
	// StateIdle means no key has been set yet.
	StateIdle QueryState = iota
	// StateLoading means the first fetch is in flight and no previous
	// data exists to show.
	StateLoading
	// StateFetching means a fetch is in flight but data for a previous
	// key is still available (stale-while-revalidate).
	StateFetching
	// StateReady means the current key's data is resolved.
	StateReady
	// StateError means the current key's fetch failed.
	StateError
)

// Snapshot is the renderable state of a query at a point in time.
type Snapshot[E any] struct {
	Key   Key
	State QueryState
	Data  []E
	Err   error

	// Stale marks Data as belonging to a previous key, kept visible
	// while the current key resolves.
	Stale bool
}

// Empty reports whether the query resolved to zero matches. Distinct from
// both loading and error states.
func (s Snapshot[E]) Empty() bool {
	return s.State == StateReady && len(s.Data) == 0
}

// ListQuery keeps one list endpoint's state synchronized with the cache.
// Changing the key serves cached data when present and otherwise fetches,
// keeping the previous result visible until the new one resolves. Results
// of superseded fetches are discarded, and invalidation of the active key
// triggers a refetch.
type ListQuery[E any] struct {
	store    *Store
	fetch    func(ctx context.Context, key Key) ([]E, error)
	onChange func(Snapshot[E])
	unwatch  func()

	mu   sync.Mutex
	ctx  context.Context
	key  Key
	snap Snapshot[E]
}

// NewListQuery creates a query over store. fetch loads one key's data;
// onChange is called with every new snapshot (may be nil).
func NewListQuery[E any](store *Store, fetch func(ctx context.Context, key Key) ([]E, error), onChange func(Snapshot[E])) *ListQuery[E] {
	q := &ListQuery[E]{
		store:    store,
		fetch:    fetch,
		onChange: onChange,
	}
	q.unwatch = store.Watch(q.handleInvalidate)
	return q
}

// Close detaches the query from the cache.
func (q *ListQuery[E]) Close() {
	q.unwatch()
}

// Snapshot returns the current snapshot.
func (q *ListQuery[E]) Snapshot() Snapshot[E] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// SetKey switches the query to a new cache key. A cache hit resolves
// immediately; a miss starts a fetch while keeping the previous data
// visible in the Fetching state.
func (q *ListQuery[E]) SetKey(ctx context.Context, key Key) {
	q.mu.Lock()
	q.ctx = ctx
	q.key = key

	if data, err, ok := q.store.Lookup(key); ok {
		snap := resolvedSnapshot[E](key, data, err)
		q.snap = snap
		q.mu.Unlock()
		q.notify(snap)
		return
	}

	snap := q.beginFetchLocked(ctx, key)
	q.mu.Unlock()
	q.notify(snap)
}

// handleInvalidate refetches when the active key's entry is dropped.
func (q *ListQuery[E]) handleInvalidate(key Key) {
	q.mu.Lock()
	if q.key != key || q.ctx == nil {
		q.mu.Unlock()
		return
	}
	snap := q.beginFetchLocked(q.ctx, key)
	q.mu.Unlock()
	q.notify(snap)
}

// beginFetchLocked starts a fetch for key and returns the interim snapshot.
// Caller holds q.mu.
func (q *ListQuery[E]) beginFetchLocked(ctx context.Context, key Key) Snapshot[E] {
	gen := q.store.Begin(key)

	snap := Snapshot[E]{Key: key}
	if q.snap.State == StateReady || q.snap.State == StateFetching {
		// Keep the previous result visible rather than flashing empty.
		snap.State = StateFetching
		snap.Data = q.snap.Data
		snap.Stale = true
	} else {
		snap.State = StateLoading
	}
	q.snap = snap

	go func() {
		data, err := q.fetch(ctx, key)
		if !q.store.Commit(key, gen, data, err) {
			// Superseded by a newer fetch or an invalidation.
			return
		}

		q.mu.Lock()
		if q.key != key {
			q.mu.Unlock()
			return
		}
		resolved := resolvedSnapshot[E](key, data, err)
		q.snap = resolved
		q.mu.Unlock()
		q.notify(resolved)
	}()

	return snap
}

func (q *ListQuery[E]) notify(snap Snapshot[E]) {
	if q.onChange != nil {
		q.onChange(snap)
	}
}

func resolvedSnapshot[E any](key Key, data any, err error) Snapshot[E] {
	if err != nil {
		return Snapshot[E]{Key: key, State: StateError, Err: err}
	}
	items, _ := data.([]E)
	return Snapshot[E]{Key: key, State: StateReady, Data: items}
}
