package db

import (
	"time"
)

// Album collection kinds.
const (
	TypeCollection = "collection"
	TypeWishlist   = "wishlist"
)

// User represents a registered account. Username is nil until the user
// completes onboarding.
type User struct {
	ID           string    `json:"id"`
	Username     *string   `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Theme        string    `json:"theme"` // light, dark or system
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the public shape returned by user search.
type UserSummary struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Session represents an authenticated web session.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Album is a record in a user's collection or wishlist.
type Album struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Artist      string    `json:"artist"`
	Image       string    `json:"image"`
	ReleaseDate string    `json:"release_date"`
	Variant     *string   `json:"variant"`
	Genres      []string  `json:"genres"`
	Type        string    `json:"type"` // collection or wishlist
	Seq         int64     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AlbumFilter narrows album list queries.
type AlbumFilter struct {
	// Type restricts results to collection or wishlist entries.
	Type string

	// UserID scopes results to one owner when non-empty.
	UserID string

	// Search matches name or artist, case-insensitively, when non-empty.
	Search string
}
