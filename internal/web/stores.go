package web

import (
	"context"

	"github.com/waxlog/waxlog/internal/db"
)

// AlbumStore is the persistence surface the record endpoints need.
// *db.AlbumRepository satisfies it; tests use an in-memory fake.
type AlbumStore interface {
	List(ctx context.Context, filter db.AlbumFilter) ([]db.Album, error)
	Get(ctx context.Context, id string) (*db.Album, error)
	Create(ctx context.Context, album *db.Album) error
	Update(ctx context.Context, album *db.Album) error
	Delete(ctx context.Context, id string) error
}

// UserStore is the persistence surface the account endpoints need.
// *db.UserRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *db.User) error
	Get(ctx context.Context, id string) (*db.User, error)
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByUsername(ctx context.Context, username string) (*db.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *db.User) error
	Search(ctx context.Context, term string, limit int) ([]db.UserSummary, error)
}

var (
	_ AlbumStore = (*db.AlbumRepository)(nil)
	_ UserStore  = (*db.UserRepository)(nil)
)
