package feed

import (
	"encoding/json"
	"log"
	"net/http"

	"ripple/internal/api/middleware"
	"ripple/internal/core/feeds"
)

// GetFeedHandler serves the viewer's following feed
type GetFeedHandler struct {
	service feeds.Service
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(service feeds.Service) *GetFeedHandler {
	return &GetFeedHandler{
		service: service,
	}
}

// HandleGetFeed handles GET /api/feed.
// Returns posts from every author the viewer follows, newest first.
func (h *GetFeedHandler) HandleGetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	subject := middleware.GetSubject(r)
	if subject == nil {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	feedPosts, err := h.service.GetFeedPosts(r.Context(), subject.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(feedPosts); err != nil {
		log.Printf("Failed to encode feed response: %v", err)
	}
}
