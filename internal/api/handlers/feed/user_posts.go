package feed

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ripple/internal/core/feeds"
)

// UserPostsHandler serves a single user's posts by username
type UserPostsHandler struct {
	service feeds.Service
}

// NewUserPostsHandler creates a new user posts handler
func NewUserPostsHandler(service feeds.Service) *UserPostsHandler {
	return &UserPostsHandler{
		service: service,
	}
}

// HandleUserPosts handles GET /api/users/{username}/posts. Public.
func (h *UserPostsHandler) HandleUserPosts(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "username is required")
		return
	}

	userPosts, err := h.service.GetUserPosts(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(userPosts); err != nil {
		log.Printf("Failed to encode user posts response: %v", err)
	}
}
