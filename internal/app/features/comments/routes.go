// internal/app/features/comments/routes.go
package comments

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
)

// Routes mounts comment-level endpoints under the base path
// (typically "/comments"). Create and list register on the posts
// subtree since they address a post.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
