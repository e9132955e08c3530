package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles user database operations.
type UserRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, name, email, password_hash, theme, created_at, updated_at`

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, name, email, password_hash, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Theme,
		now,
		now,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Get retrieves a user by ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// GetByUsername retrieves a user by username, case-insensitively.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(username) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

// UsernameTaken reports whether a username is already claimed, ignoring case.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE lower(username) = lower($1))`
	var taken bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&taken); err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return taken, nil
}

// Update writes username, name and theme for an existing user.
func (r *UserRepository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, name = $3, theme = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Name,
		user.Theme,
	).Scan(&user.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// Search returns up to limit users whose username or name contains the term,
// case-insensitively. Users who have not picked a username yet are excluded.
func (r *UserRepository) Search(ctx context.Context, term string, limit int) ([]UserSummary, error) {
	query := `
		SELECT username, name
		FROM users
		WHERE username IS NOT NULL
		  AND (username ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%')
		ORDER BY username ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, term, limit)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var users []UserSummary
	for rows.Next() {
		var u UserSummary
		if err := rows.Scan(&u.Username, &u.Name); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Theme,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
