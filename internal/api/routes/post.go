package routes

import (
	"github.com/go-chi/chi/v5"

	"ripple/internal/api/handlers/post"
	"ripple/internal/api/middleware"
	"ripple/internal/core/posts"
)

// RegisterPostRoutes registers post endpoints on the router.
// Reads on a single post are public; every mutation and the debug listing
// require authentication.
func RegisterPostRoutes(r chi.Router, service posts.Service, auth *middleware.AuthMiddleware) {
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	deleteHandler := post.NewDeleteHandler(service)
	listHandler := post.NewListHandler(service)
	likeHandler := post.NewLikeHandler(service)
	replyHandler := post.NewReplyHandler(service)

	r.Route("/api/posts", func(r chi.Router) {
		r.Get("/{postID}", getHandler.HandleGet)

		r.With(auth.RequireAuth).Post("/", createHandler.HandleCreate)
		r.With(auth.RequireAuth).Delete("/{postID}", deleteHandler.HandleDelete)
		r.With(auth.RequireAuth).Put("/{postID}/like", likeHandler.HandleLike)
		r.With(auth.RequireAuth).Put("/{postID}/reply", replyHandler.HandleReply)

		// Admin/debug listing, not part of the product surface
		r.With(auth.RequireAuth).Get("/", listHandler.HandleList)
	})
}
