package posts

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"ripple/internal/core/media"
	"ripple/internal/core/users"
)

// postService implements the Service interface.
// Stateless: every operation is a single request/response transaction over
// the repository, the user directory, and the media store.
type postService struct {
	repo      Repository
	directory users.Directory
	media     media.Store
	logger    *slog.Logger
}

// NewService creates a new post service instance
func NewService(repo Repository, directory users.Directory, mediaStore media.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:      repo,
		directory: directory,
		media:     mediaStore,
		logger:    logger,
	}
}

// CreatePost validates input, checks authorization, optionally uploads the
// image, and persists the new post.
// Flow: Validate -> Authorize (caller == author) -> Resolve author ->
// Upload image -> Persist.
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.AuthorID == "" {
		return nil, NewValidationError("authorId", "authorId is required")
	}

	// Only a user may post as themself. Checked before the remaining
	// validation so an impersonation attempt is reported as such no matter
	// what else is wrong with the request.
	if err := requireOwner(req.CallerID, req.AuthorID); err != nil {
		return nil, err
	}

	if req.Text == "" {
		return nil, NewValidationError("text", "text is required")
	}
	if uniseg.GraphemeClusterCount(req.Text) > MaxTextLength {
		return nil, NewValidationError("text",
			fmt.Sprintf("text must be at most %d characters", MaxTextLength))
	}

	if _, err := s.directory.GetByID(ctx, req.AuthorID); err != nil {
		if err == users.ErrUserNotFound {
			return nil, NewNotFoundError("user", req.AuthorID)
		}
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	var imageURL *string
	if req.Image != "" {
		url, err := s.uploadImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	post := &Post{
		ID:        uuid.NewString(),
		AuthorID:  req.AuthorID,
		Text:      req.Text,
		ImageURL:  imageURL,
		Likes:     []string{},
		Replies:   []Reply{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		// The image upload already happened; clean up the orphan best-effort
		if imageURL != nil {
			if delErr := s.media.Delete(ctx, media.KeyFromURL(*imageURL)); delErr != nil {
				s.logger.Warn("failed to clean up orphaned image after persist failure",
					"error", delErr,
					"imageUrl", *imageURL)
			}
		}
		return nil, fmt.Errorf("failed to persist post: %w", err)
	}

	s.logger.Info("post created",
		"post", post.ID,
		"author", post.AuthorID,
		"hasImage", imageURL != nil)

	return post, nil
}

// GetPost fetches a post by identifier. No authorization check — reads are
// public in this design.
func (s *postService) GetPost(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, NewValidationError("postId", "postId is required")
	}
	return s.repo.GetByID(ctx, id)
}

// DeletePost removes a post after verifying the caller owns it.
// The media delete runs first but never blocks record deletion: the record
// of truth wins over perfect media cleanup.
func (s *postService) DeletePost(ctx context.Context, id, callerID string) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := requireOwner(callerID, post.AuthorID); err != nil {
		return err
	}

	if post.ImageURL != nil {
		if err := s.media.Delete(ctx, media.KeyFromURL(*post.ImageURL)); err != nil {
			s.logger.Error("failed to delete post image from media store",
				"error", err,
				"post", post.ID,
				"imageUrl", *post.ImageURL)
			// fall through: the record still gets deleted
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("post deleted", "post", id, "author", callerID)
	return nil
}

// ListAllPosts returns every post. Administrative/debug use only.
func (s *postService) ListAllPosts(ctx context.Context) ([]*Post, error) {
	return s.repo.ListAll(ctx)
}

// ToggleLike flips the user's membership in the post's likes set.
// The toggle is a single atomic conditional update in the repository, so
// concurrent toggles on the same post never produce duplicate likes.
func (s *postService) ToggleLike(ctx context.Context, id, userID string) (LikeAction, error) {
	if id == "" {
		return "", NewValidationError("postId", "postId is required")
	}

	action, err := s.repo.ToggleLike(ctx, id, userID)
	if err != nil {
		return "", err
	}

	s.logger.Info("like toggled", "post", id, "user", userID, "action", string(action))
	return action, nil
}

// ReplyToPost appends a reply to the post's ordered reply sequence. The
// author's username, display name, and avatar are snapshotted at call time.
func (s *postService) ReplyToPost(ctx context.Context, req ReplyRequest) (*Reply, error) {
	if req.Text == "" {
		return nil, NewValidationError("text", "text is required")
	}

	reply := &Reply{
		PostID:            req.PostID,
		AuthorID:          req.AuthorID,
		AuthorUsername:    req.AuthorUsername,
		AuthorDisplayName: req.AuthorDisplayName,
		AuthorAvatarURL:   req.AuthorAvatarURL,
		Text:              req.Text,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.repo.AppendReply(ctx, reply); err != nil {
		return nil, err
	}

	s.logger.Info("reply appended", "post", req.PostID, "author", req.AuthorID, "reply", reply.ID)
	return reply, nil
}

// uploadImage decodes the base64 payload, validates it, and uploads it to
// the media store. Accepts raw base64 or a data URI.
func (s *postService) uploadImage(ctx context.Context, encoded string) (string, error) {
	if i := strings.Index(encoded, ";base64,"); i >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[i+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", NewValidationError("image", "image must be base64 encoded")
	}
	if len(data) == 0 {
		return "", NewValidationError("image", "image payload is empty")
	}
	if len(data) > media.MaxImageBytes {
		return "", NewValidationError("image",
			fmt.Sprintf("image exceeds maximum size of %d bytes", media.MaxImageBytes))
	}

	contentType := media.NormalizeType(http.DetectContentType(data))
	if !media.IsAllowedType(contentType) {
		return "", NewValidationError("image",
			fmt.Sprintf("unsupported image type: %s", contentType))
	}

	url, err := s.media.Upload(ctx, data, contentType)
	if err != nil {
		s.logger.Error("media store upload failed", "error", err, "contentType", contentType)
		return "", fmt.Errorf("%w: %v", ErrMediaUpload, err)
	}

	return url, nil
}
