package client

import "testing"

func TestStoreCommitSupersession(t *testing.T) {
	store := NewStore()
	key := Key{Kind: KindCollection, Scope: "alice"}

	first := store.Begin(key)
	second := store.Begin(key)

	if store.Commit(key, first, "stale", nil) {
		t.Error("superseded commit was accepted")
	}
	if _, _, ok := store.Lookup(key); ok {
		t.Error("superseded commit wrote an entry")
	}

	if !store.Commit(key, second, "fresh", nil) {
		t.Error("current commit was rejected")
	}
	data, _, ok := store.Lookup(key)
	if !ok || data != "fresh" {
		t.Errorf("entry = %v, want fresh", data)
	}
}

func TestStoreInvalidationSupersedesInFlightFetch(t *testing.T) {
	store := NewStore()
	key := Key{Kind: KindCollection, Scope: "alice"}

	if !store.Commit(key, store.Begin(key), "original", nil) {
		t.Fatal("initial commit rejected")
	}

	// A fetch starts, then the entry is invalidated before it lands.
	gen := store.Begin(key)
	store.Invalidate(func(k Key) bool { return k == key })

	if store.Commit(key, gen, "pre-invalidation", nil) {
		t.Error("fetch started before invalidation committed as fresh")
	}
	if _, _, ok := store.Lookup(key); ok {
		t.Error("invalidated entry still present")
	}
}

func TestInvalidateListsScoping(t *testing.T) {
	store := NewStore()

	keys := []Key{
		{Kind: KindCollection},                            // global collection
		{Kind: KindCollection, Scope: "alice"},            // owner's collection
		{Kind: KindWishlist, Scope: "alice", Term: "x"},   // owner's wishlist search
		{Kind: KindCollection, Scope: "bob"},              // someone else's
		{Kind: KindCatalog, Term: "x"},                    // catalog search
		{Kind: KindUsers, Term: "ali"},                    // user search
		RecordKey("some-id"),                              // single record
	}
	for _, k := range keys {
		if !store.Commit(k, store.Begin(k), "data", nil) {
			t.Fatalf("seeding %v", k)
		}
	}

	store.InvalidateLists("alice")

	wantDropped := map[Key]bool{
		keys[0]: true,
		keys[1]: true,
		keys[2]: true,
	}
	for _, k := range keys {
		_, _, ok := store.Lookup(k)
		if wantDropped[k] && ok {
			t.Errorf("%v survived invalidation", k)
		}
		if !wantDropped[k] && !ok {
			t.Errorf("%v was dropped, want kept", k)
		}
	}
}

func TestInvalidateRecord(t *testing.T) {
	store := NewStore()
	hit := RecordKey("a")
	miss := RecordKey("b")
	store.Commit(hit, store.Begin(hit), "a", nil)
	store.Commit(miss, store.Begin(miss), "b", nil)

	store.InvalidateRecord("a")

	if _, _, ok := store.Lookup(hit); ok {
		t.Error("record entry survived invalidation")
	}
	if _, _, ok := store.Lookup(miss); !ok {
		t.Error("unrelated record entry was dropped")
	}
}

func TestWatchNotifiesAndCancels(t *testing.T) {
	store := NewStore()
	key := Key{Kind: KindCollection, Scope: "alice"}
	store.Commit(key, store.Begin(key), "data", nil)

	var seen []Key
	cancel := store.Watch(func(k Key) { seen = append(seen, k) })

	store.InvalidateLists("alice")
	if len(seen) != 1 || seen[0] != key {
		t.Fatalf("watcher saw %v, want [%v]", seen, key)
	}

	cancel()
	store.Commit(key, store.Begin(key), "data", nil)
	store.InvalidateLists("alice")
	if len(seen) != 1 {
		t.Errorf("watcher fired after cancel: %v", seen)
	}
}
