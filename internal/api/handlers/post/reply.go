package post

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ripple/internal/api/middleware"
	"ripple/internal/core/posts"
)

// ReplyHandler handles reply creation requests
type ReplyHandler struct {
	service posts.Service
}

// NewReplyHandler creates a new reply handler
func NewReplyHandler(service posts.Service) *ReplyHandler {
	return &ReplyHandler{
		service: service,
	}
}

// replyInput is the request body for a reply
type replyInput struct {
	Text string `json:"text"`
}

// HandleReply handles PUT /api/posts/{postID}/reply.
// The reply's author snapshot comes from the authenticated subject.
func (h *ReplyHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	if postID == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "postID is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var input replyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	subject := middleware.GetSubject(r)
	if subject == nil {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	reply, err := h.service.ReplyToPost(r.Context(), posts.ReplyRequest{
		PostID:            postID,
		AuthorID:          subject.UserID,
		AuthorUsername:    subject.Username,
		AuthorDisplayName: subject.DisplayName,
		AuthorAvatarURL:   subject.AvatarURL,
		Text:              input.Text,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		log.Printf("Failed to encode reply response: %v", err)
	}
}
