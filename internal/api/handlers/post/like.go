package post

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ripple/internal/api/middleware"
	"ripple/internal/core/posts"
)

// LikeHandler handles like/unlike toggle requests
type LikeHandler struct {
	service posts.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service posts.Service) *LikeHandler {
	return &LikeHandler{
		service: service,
	}
}

// HandleLike handles PUT /api/posts/{postID}/like.
// A single toggle endpoint: liking an already-liked post unlikes it.
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	subject := middleware.GetSubject(r)
	if subject == nil {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	action, err := h.service.ToggleLike(r.Context(), postID, subject.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	message := "Post liked successfully"
	if action == posts.ActionUnliked {
		message = "Post unliked successfully"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"action":  string(action),
		"message": message,
	}); err != nil {
		log.Printf("Failed to encode like response: %v", err)
	}
}
