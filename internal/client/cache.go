package client

import "sync"

// Kind values for cache keys.
const (
	KindCollection = "collection"
	KindWishlist   = "wishlist"
	KindCatalog    = "catalog"
	KindUsers      = "users"
	KindRecord     = "record"
)

// Key addresses one cached result set. Kind separates collection, wishlist,
// catalog, user and single-record data; Scope is the owning username for
// list kinds (empty means the global, unscoped list) or the record id for
// KindRecord; Term is the search term. Two keys that differ in any field
// never share an entry.
type Key struct {
	Kind  string
	Scope string
	Term  string
}

// RecordKey is the cache key for a single record fetched by id.
func RecordKey(id string) Key {
	return Key{Kind: KindRecord, Scope: id}
}

type entry struct {
	data any
	err  error
}

// Store is the shared client-side cache. It holds resolved results keyed by
// Key, hands out per-key generations so that only the last-issued fetch may
// commit, and notifies watchers when entries are invalidated.
type Store struct {
	mu       sync.Mutex
	entries  map[Key]entry
	gens     map[Key]uint64
	watchers map[int]func(Key)
	nextID   int
}

// NewStore creates an empty cache.
func NewStore() *Store {
	return &Store{
		entries:  make(map[Key]entry),
		gens:     make(map[Key]uint64),
		watchers: make(map[int]func(Key)),
	}
}

// Lookup returns the cached result for key, if any.
func (s *Store) Lookup(key Key) (data any, err error, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e.data, e.err, ok
}

// Begin issues a new fetch generation for key. Any fetch started with an
// earlier generation is superseded and its Commit will be rejected.
func (s *Store) Begin(key Key) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[key]++
	return s.gens[key]
}

// Commit stores a fetch result. It reports whether the result was accepted;
// a result for a superseded generation is discarded without touching the
// entry, so a late response never overwrites a newer one.
func (s *Store) Commit(key Key, gen uint64, data any, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gens[key] {
		return false
	}
	s.entries[key] = entry{data: data, err: err}
	return true
}

// Watch registers a callback fired with each invalidated key. The returned
// function cancels the registration.
func (s *Store) Watch(fn func(Key)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Invalidate drops every entry whose key matches and notifies watchers.
// In-flight fetches for dropped keys are superseded as well, so a response
// computed against pre-invalidation state cannot land as fresh.
func (s *Store) Invalidate(match func(Key) bool) {
	s.mu.Lock()
	var dropped []Key
	for key := range s.entries {
		if match(key) {
			delete(s.entries, key)
			s.gens[key]++
			dropped = append(dropped, key)
		}
	}
	var fns []func(Key)
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, key := range dropped {
		for _, fn := range fns {
			fn(key)
		}
	}
}

// InvalidateLists drops every list entry whose scope could include a record
// owned by owner: the owner-scoped collection and wishlist lists plus the
// global ones. Catalog and user searches are unaffected.
func (s *Store) InvalidateLists(owner string) {
	s.Invalidate(func(key Key) bool {
		if key.Kind != KindCollection && key.Kind != KindWishlist {
			return false
		}
		return key.Scope == "" || key.Scope == owner
	})
}

// InvalidateRecord drops the single-record entry for id.
func (s *Store) InvalidateRecord(id string) {
	target := RecordKey(id)
	s.Invalidate(func(key Key) bool { return key == target })
}
