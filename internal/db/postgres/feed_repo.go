package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"ripple/internal/core/feeds"
	"ripple/internal/core/posts"
)

type postgresFeedRepo struct {
	db *sql.DB
}

// NewFeedRepository creates a new PostgreSQL feed repository
func NewFeedRepository(db *sql.DB) feeds.Repository {
	return &postgresFeedRepo{db: db}
}

// ListByAuthors returns all posts by the given authors ordered by creation
// time descending. The id tiebreak keeps the order stable when timestamps
// collide.
func (r *postgresFeedRepo) ListByAuthors(ctx context.Context, authorIDs []string) ([]*posts.Post, error) {
	if len(authorIDs) == 0 {
		return []*posts.Post{}, nil
	}

	query := `
		SELECT id, author_id, text, image_url, created_at
		FROM posts
		WHERE author_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(authorIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query feed posts: %w", err)
	}
	defer rows.Close()

	result, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}

	if err := hydratePosts(ctx, r.db, result); err != nil {
		return nil, err
	}

	return result, nil
}
