package media

import (
	"context"
	"strings"
)

// MaxImageBytes is the upload size cap (6MB)
const MaxImageBytes = 6291456

// Store wraps the external object-storage service used for post images.
// Upload returns the permanent public URL that gets persisted on the post;
// Delete takes the identifier derived from that URL via KeyFromURL.
// No retries or caching — callers decide how to handle failures.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, id string) error
}

// KeyFromURL derives the storage identifier for a stored image URL:
// the last path segment with its file extension stripped (the text between
// the final "/" and the final "."). Previously stored URLs depend on this
// exact derivation, so it must not change.
func KeyFromURL(rawURL string) string {
	segment := rawURL
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.LastIndex(segment, "."); i >= 0 {
		segment = segment[:i]
	}
	return segment
}

// IsAllowedType reports whether the MIME type is accepted for post images
func IsAllowedType(contentType string) bool {
	switch NormalizeType(contentType) {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	default:
		return false
	}
}

// NormalizeType converts non-standard MIME types to their standard
// equivalents. Many CDNs and clients send image/jpg instead of image/jpeg.
func NormalizeType(contentType string) string {
	if contentType == "image/jpg" {
		return "image/jpeg"
	}
	return contentType
}
