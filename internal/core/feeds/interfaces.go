package feeds

import (
	"context"

	"ripple/internal/core/posts"
)

// Service assembles chronological feeds from the social graph
type Service interface {
	// GetFeedPosts returns every post whose author the viewer follows,
	// newest first. A viewer following nobody gets an empty feed.
	GetFeedPosts(ctx context.Context, viewerID string) ([]*posts.Post, error)

	// GetUserPosts resolves the username and returns that user's posts,
	// newest first
	GetUserPosts(ctx context.Context, username string) ([]*posts.Post, error)
}

// Repository defines the data access interface for feed queries
type Repository interface {
	// ListByAuthors returns all posts by the given authors ordered by
	// creation time descending, likes and replies hydrated
	ListByAuthors(ctx context.Context, authorIDs []string) ([]*posts.Post, error)
}
