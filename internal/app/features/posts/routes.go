// internal/app/features/posts/routes.go
package posts

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityachugh/Announcements-Web/internal/app/features/comments"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
)

// Routes mounts the /posts subtree. Comment create/list hang off a
// post, so the comments handler registers here.
func Routes(h *Handler, ch *comments.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.ServeView)
	r.Get("/{id}/comments", ch.ServeList)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/{id}/decide", h.HandleDecide)
		r.Post("/{id}/delete", h.HandleDelete)
		r.Post("/{id}/comments", ch.HandleCreate)
	})

	return r
}

// FeedRoutes mounts the signed-in home feed (typically "/feed").
func FeedRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeFeed)
	return r
}
