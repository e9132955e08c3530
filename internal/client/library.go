package client

import (
	"context"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/db"
)

// Library bundles the API client with a shared cache so that a UI never
// talks to the network directly. Mutations go through Library methods,
// which invalidate the affected cache entries only after the server
// confirms the write.
type Library struct {
	api   *API
	store *Store
}

// NewLibrary creates a data layer over api with an empty cache.
func NewLibrary(api *API) *Library {
	return &Library{api: api, store: NewStore()}
}

// API exposes the underlying HTTP client for session operations.
func (l *Library) API() *API { return l.api }

// Store exposes the shared cache.
func (l *Library) Store() *Store { return l.store }

// VinylQuery creates a list query over collection and wishlist keys. The
// key's Kind selects the list type, Scope the owning username, Term the
// search filter.
func (l *Library) VinylQuery(onChange func(Snapshot[db.Album])) *ListQuery[db.Album] {
	return NewListQuery(l.store, func(ctx context.Context, key Key) ([]db.Album, error) {
		return l.api.ListVinyls(ctx, key.Kind, key.Scope, key.Term)
	}, onChange)
}

// CatalogQuery creates a list query over catalog search keys.
func (l *Library) CatalogQuery(onChange func(Snapshot[catalog.Album])) *ListQuery[catalog.Album] {
	return NewListQuery(l.store, func(ctx context.Context, key Key) ([]catalog.Album, error) {
		return l.api.SearchCatalog(ctx, key.Term)
	}, onChange)
}

// UserQuery creates a list query over user search keys.
func (l *Library) UserQuery(onChange func(Snapshot[db.UserSummary])) *ListQuery[db.UserSummary] {
	return NewListQuery(l.store, func(ctx context.Context, key Key) ([]db.UserSummary, error) {
		return l.api.SearchUsers(ctx, key.Term)
	}, onChange)
}

// AddVinyl creates a record and invalidates every list that could include
// it. owner is the session user's username.
func (l *Library) AddVinyl(ctx context.Context, owner string, input AlbumInput) (*db.Album, error) {
	album, err := l.api.CreateVinyl(ctx, input)
	if err != nil {
		return nil, err
	}
	l.store.InvalidateLists(owner)
	return album, nil
}

// EditVinyl updates a record, invalidating the affected lists and the
// record's own cache entry so an edit view reflects the saved state.
func (l *Library) EditVinyl(ctx context.Context, owner, id string, input AlbumInput) (*db.Album, error) {
	album, err := l.api.UpdateVinyl(ctx, id, input)
	if err != nil {
		return nil, err
	}
	l.store.InvalidateLists(owner)
	l.store.InvalidateRecord(id)
	return album, nil
}

// RemoveVinyl deletes a record and invalidates the affected entries.
func (l *Library) RemoveVinyl(ctx context.Context, owner, id string) error {
	if err := l.api.DeleteVinyl(ctx, id); err != nil {
		return err
	}
	l.store.InvalidateLists(owner)
	l.store.InvalidateRecord(id)
	return nil
}
