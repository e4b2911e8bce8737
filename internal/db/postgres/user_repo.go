package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ripple/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserDirectory creates a read-only PostgreSQL view onto the users and
// user_follows tables. Writes to those tables belong to the external
// identity service.
func NewUserDirectory(db *sql.DB) users.Directory {
	return &postgresUserRepo{db: db}
}

// GetByID retrieves a user by identifier
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, display_name, avatar_url, created_at
		FROM users
		WHERE id = $1
	`, id)
}

// GetByUsername retrieves a user by their unique username
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getOne(ctx, `
		SELECT id, username, display_name, avatar_url, created_at
		FROM users
		WHERE username = $1
	`, username)
}

// Following returns the IDs of every user the given user follows
func (r *postgresUserRepo) Following(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT followee_id
		FROM user_follows
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query following set: %w", err)
	}
	defer rows.Close()

	following := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan followee: %w", err)
		}
		following = append(following, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate following set: %w", err)
	}

	return following, nil
}

func (r *postgresUserRepo) getOne(ctx context.Context, query string, arg any) (*users.User, error) {
	user := &users.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
