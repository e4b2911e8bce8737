package posts

import "context"

// Service defines the business logic interface for posts.
// Coordinates between the repository, the user directory, and the media store.
type Service interface {
	// CreatePost validates input, enforces caller == author, uploads the
	// optional image, and persists the new post
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// GetPost fetches a post by identifier. Reads are public.
	GetPost(ctx context.Context, id string) (*Post, error)

	// DeletePost removes a post. Only the author may delete; an associated
	// image is deleted from the media store best-effort.
	DeletePost(ctx context.Context, id, callerID string) error

	// ListAllPosts returns every post. Administrative/debug surface only.
	ListAllPosts(ctx context.Context) ([]*Post, error)

	// ToggleLike flips the user's membership in the post's likes set and
	// reports which way it resolved
	ToggleLike(ctx context.Context, id, userID string) (LikeAction, error)

	// ReplyToPost appends a reply carrying a write-time snapshot of the
	// author's profile
	ReplyToPost(ctx context.Context, req ReplyRequest) (*Reply, error)
}

// Repository defines the data access interface for posts.
// ToggleLike and AppendReply are atomic conditional updates at the storage
// layer — membership and ordering are enforced by the store, never by
// application-level read-modify-write.
type Repository interface {
	// Create inserts a new post
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post with its likes and replies hydrated.
	// Returns ErrNotFound when no post matches.
	GetByID(ctx context.Context, id string) (*Post, error)

	// ListAll returns every post, newest first
	ListAll(ctx context.Context) ([]*Post, error)

	// Delete removes a post and, through the schema, its likes and replies.
	// Returns ErrNotFound when no post matches.
	Delete(ctx context.Context, id string) error

	// ToggleLike atomically adds the user to the post's likes set, or
	// removes them if already present. Safe under concurrent toggles.
	ToggleLike(ctx context.Context, postID, userID string) (LikeAction, error)

	// AppendReply appends a reply to the post's ordered reply sequence,
	// assigning its ID. Returns ErrNotFound when the post is gone.
	AppendReply(ctx context.Context, reply *Reply) error
}
