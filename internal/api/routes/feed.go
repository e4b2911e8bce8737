package routes

import (
	"github.com/go-chi/chi/v5"

	feedhandlers "ripple/internal/api/handlers/feed"
	"ripple/internal/api/middleware"
	"ripple/internal/core/feeds"
)

// RegisterFeedRoutes registers the feed and user-posts endpoints.
// The following feed needs the viewer's identity; a user's own post list
// is public, like single-post reads.
func RegisterFeedRoutes(r chi.Router, service feeds.Service, auth *middleware.AuthMiddleware) {
	feedHandler := feedhandlers.NewGetFeedHandler(service)
	userPostsHandler := feedhandlers.NewUserPostsHandler(service)

	r.With(auth.RequireAuth).Get("/api/feed", feedHandler.HandleGetFeed)
	r.Get("/api/users/{username}/posts", userPostsHandler.HandleUserPosts)
}
