package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ripple/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	query := `
		INSERT INTO posts (id, author_id, text, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.AuthorID, post.Text, post.ImageURL, post.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return posts.NewNotFoundError("user", post.AuthorID)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by identifier with likes and replies hydrated
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `
		SELECT id, author_id, text, image_url, created_at
		FROM posts
		WHERE id = $1
	`

	post := &posts.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.AuthorID, &post.Text, &post.ImageURL, &post.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if err := hydratePosts(ctx, r.db, []*posts.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

// ListAll returns every post, newest first. Debug/admin surface.
func (r *postgresPostRepo) ListAll(ctx context.Context) ([]*posts.Post, error) {
	query := `
		SELECT id, author_id, text, image_url, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
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

// Delete removes a post. Likes and replies go with it via ON DELETE CASCADE.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}

	return nil
}

// ToggleLike atomically flips the user's membership in the post's likes set.
// The primary key on (post_id, user_id) makes duplicates impossible and the
// conditional insert/delete pair safe under concurrent toggles: the insert
// either claims membership or conflicts, and a conflict means the like
// existed, so it gets removed.
func (r *postgresPostRepo) ToggleLike(ctx context.Context, postID, userID string) (posts.LikeAction, error) {
	insert := `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, insert, postID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", missingFKResource(err, "user_id", userID)
		}
		return "", fmt.Errorf("failed to toggle like: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to check toggle result: %w", err)
	}
	if affected == 1 {
		return posts.ActionLiked, nil
	}

	// The like already existed: remove it. If a concurrent request removed
	// it between our two statements the delete is a no-op and the final
	// state is still "not liked".
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
		return "", fmt.Errorf("failed to remove like: %w", err)
	}

	return posts.ActionUnliked, nil
}

// AppendReply appends a reply to the post's ordered reply sequence.
// Ordering is the serial id assigned here.
func (r *postgresPostRepo) AppendReply(ctx context.Context, reply *posts.Reply) error {
	query := `
		INSERT INTO post_replies (
			post_id, author_id, author_username,
			author_display_name, author_avatar_url, text, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		reply.PostID, reply.AuthorID, reply.AuthorUsername,
		reply.AuthorDisplayName, reply.AuthorAvatarURL, reply.Text, reply.CreatedAt,
	).Scan(&reply.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return missingFKResource(err, "author_id", reply.AuthorID)
		}
		return fmt.Errorf("failed to append reply: %w", err)
	}

	return nil
}

// scanPosts reads post rows without likes/replies
func scanPosts(rows *sql.Rows) ([]*posts.Post, error) {
	result := []*posts.Post{}
	for rows.Next() {
		post := &posts.Post{}
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Text, &post.ImageURL, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return result, nil
}

// hydratePosts fills in the likes sets and reply sequences for a batch of
// posts with two grouped queries instead of 2N round trips
func hydratePosts(ctx context.Context, db *sql.DB, batch []*posts.Post) error {
	if len(batch) == 0 {
		return nil
	}

	byID := make(map[string]*posts.Post, len(batch))
	ids := make([]string, 0, len(batch))
	for _, p := range batch {
		p.Likes = []string{}
		p.Replies = []posts.Reply{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	likeRows, err := db.QueryContext(ctx, `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at, user_id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load likes: %w", err)
	}
	defer likeRows.Close()

	for likeRows.Next() {
		var postID, userID string
		if err := likeRows.Scan(&postID, &userID); err != nil {
			return fmt.Errorf("failed to scan like: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Likes = append(p.Likes, userID)
		}
	}
	if err := likeRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate likes: %w", err)
	}

	replyRows, err := db.QueryContext(ctx, `
		SELECT id, post_id, author_id, author_username,
		       author_display_name, author_avatar_url, text, created_at
		FROM post_replies
		WHERE post_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load replies: %w", err)
	}
	defer replyRows.Close()

	for replyRows.Next() {
		var reply posts.Reply
		if err := replyRows.Scan(&reply.ID, &reply.PostID, &reply.AuthorID,
			&reply.AuthorUsername, &reply.AuthorDisplayName,
			&reply.AuthorAvatarURL, &reply.Text, &reply.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan reply: %w", err)
		}
		if p, ok := byID[reply.PostID]; ok {
			p.Replies = append(p.Replies, reply)
		}
	}
	if err := replyRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate replies: %w", err)
	}

	return nil
}

// isForeignKeyViolation detects referenced-row-missing failures
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "violates foreign key constraint")
}

// missingFKResource maps a foreign key violation to the resource that was
// actually missing. Postgres names the constraint after the column, so a
// violation mentioning userColumn means the user row is absent; anything
// else means the post is gone.
func missingFKResource(err error, userColumn, userID string) error {
	if strings.Contains(err.Error(), userColumn) {
		return posts.NewNotFoundError("user", userID)
	}
	return posts.ErrNotFound
}
