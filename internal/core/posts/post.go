package posts

import (
	"time"
)

// MaxTextLength is the fixed upper bound on a post body, in characters.
// Non-configurable by design.
const MaxTextLength = 500

// Post represents a user-authored update with optional image, likes, and replies
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	ID        string    `json:"id" db:"id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Text      string    `json:"text" db:"text"`
	Likes     []string  `json:"likes"`
	Replies   []Reply   `json:"replies"`
}

// Reply is a nested text response to a post. The author's username, display
// name, and avatar are copied at write time and never updated afterwards —
// the reply shows who the author was when they wrote it.
type Reply struct {
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	PostID            string    `json:"postId" db:"post_id"`
	AuthorID          string    `json:"authorId" db:"author_id"`
	AuthorUsername    string    `json:"authorUsername" db:"author_username"`
	AuthorDisplayName string    `json:"authorDisplayName" db:"author_display_name"`
	AuthorAvatarURL   string    `json:"authorAvatarUrl" db:"author_avatar_url"`
	Text              string    `json:"text" db:"text"`
	ID                int64     `json:"id" db:"id"`
}

// CreatePostRequest represents input for creating a new post.
// Image is an optional base64 payload (raw or data URI); the service uploads
// it to the media store and persists only the returned URL.
// CallerID is the authenticated subject, never taken from the request body.
type CreatePostRequest struct {
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
	CallerID string `json:"-"`
}

// ReplyRequest represents input for appending a reply to a post.
// The author snapshot fields come from the authenticated subject's claims.
type ReplyRequest struct {
	PostID            string
	AuthorID          string
	AuthorUsername    string
	AuthorDisplayName string
	AuthorAvatarURL   string
	Text              string
}

// LikeAction reports which way a like toggle resolved
type LikeAction string

const (
	ActionLiked   LikeAction = "liked"
	ActionUnliked LikeAction = "unliked"
)
