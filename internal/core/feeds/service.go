package feeds

import (
	"context"
	"fmt"
	"log/slog"

	"ripple/internal/core/posts"
	"ripple/internal/core/users"
)

type feedService struct {
	repo      Repository
	directory users.Directory
	logger    *slog.Logger
}

// NewService creates a new feed service
func NewService(repo Repository, directory users.Directory, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedService{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

// GetFeedPosts resolves the viewer's following set and returns the union of
// those authors' posts, newest first
func (s *feedService) GetFeedPosts(ctx context.Context, viewerID string) ([]*posts.Post, error) {
	if _, err := s.directory.GetByID(ctx, viewerID); err != nil {
		if err == users.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve viewer: %w", err)
	}

	following, err := s.directory.Following(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve following set: %w", err)
	}

	// Following nobody is an empty feed, not an error
	if len(following) == 0 {
		return []*posts.Post{}, nil
	}

	feed, err := s.repo.ListByAuthors(ctx, following)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble feed: %w", err)
	}

	s.logger.Debug("feed assembled", "viewer", viewerID, "authors", len(following), "posts", len(feed))
	return feed, nil
}

// GetUserPosts returns all posts by the named user, newest first
func (s *feedService) GetUserPosts(ctx context.Context, username string) ([]*posts.Post, error) {
	user, err := s.directory.GetByUsername(ctx, username)
	if err != nil {
		if err == users.ErrUserNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to resolve username: %w", err)
	}

	userPosts, err := s.repo.ListByAuthors(ctx, []string{user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list user posts: %w", err)
	}

	return userPosts, nil
}
