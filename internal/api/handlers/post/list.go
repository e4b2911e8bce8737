package post

import (
	"encoding/json"
	"log"
	"net/http"

	"ripple/internal/core/posts"
)

// ListHandler serves the full post listing. Administrative/debug surface,
// not part of the normal product flows.
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

// HandleList handles GET /api/posts
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListAllPosts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"posts": all,
	}); err != nil {
		log.Printf("Failed to encode list posts response: %v", err)
	}
}
