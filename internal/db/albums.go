package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles album database operations.
type AlbumRepository struct {
	pool *pgxpool.Pool
}

const albumColumns = `id, user_id, name, artist, image, release_date, variant, genres, type, seq, created_at`

// Create inserts a new album.
func (r *AlbumRepository) Create(ctx context.Context, album *Album) error {
	query := `
		INSERT INTO albums (id, user_id, name, artist, image, release_date, variant, genres, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING seq
	`
	now := time.Now()
	err := r.pool.QueryRow(ctx, query,
		album.ID,
		album.UserID,
		album.Name,
		album.Artist,
		album.Image,
		album.ReleaseDate,
		album.Variant,
		album.Genres,
		album.Type,
		now,
	).Scan(&album.Seq)
	if err != nil {
		return fmt.Errorf("inserting album: %w", err)
	}
	album.CreatedAt = now
	return nil
}

// Get retrieves an album by ID.
func (r *AlbumRepository) Get(ctx context.Context, id string) (*Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = $1`
	var album Album
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&album.ID,
		&album.UserID,
		&album.Name,
		&album.Artist,
		&album.Image,
		&album.ReleaseDate,
		&album.Variant,
		&album.Genres,
		&album.Type,
		&album.Seq,
		&album.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying album: %w", err)
	}
	return &album, nil
}

// List retrieves albums matching the filter, ordered by artist ascending,
// then release date ascending, insertion order breaking ties.
func (r *AlbumRepository) List(ctx context.Context, filter AlbumFilter) ([]Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE 1=1`
	var args []any

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		query += fmt.Sprintf(" AND (name ILIKE '%%' || $%d || '%%' OR artist ILIKE '%%' || $%d || '%%')", n, n)
	}

	query += ` ORDER BY artist ASC, release_date ASC, seq ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var album Album
		if err := rows.Scan(
			&album.ID,
			&album.UserID,
			&album.Name,
			&album.Artist,
			&album.Image,
			&album.ReleaseDate,
			&album.Variant,
			&album.Genres,
			&album.Type,
			&album.Seq,
			&album.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// Update writes the mutable fields of an album. The owning user never
// changes on update.
func (r *AlbumRepository) Update(ctx context.Context, album *Album) error {
	query := `
		UPDATE albums
		SET name = $2, artist = $3, image = $4, release_date = $5, variant = $6, genres = $7, type = $8
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		album.ID,
		album.Name,
		album.Artist,
		album.Image,
		album.ReleaseDate,
		album.Variant,
		album.Genres,
		album.Type,
	)
	if err != nil {
		return fmt.Errorf("updating album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an album by ID.
func (r *AlbumRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM albums WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting album: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
