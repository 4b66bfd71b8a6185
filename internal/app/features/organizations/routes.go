// internal/app/features/organizations/routes.go
package organizations

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityachugh/Announcements-Web/internal/app/features/follow"
	"github.com/adityachugh/Announcements-Web/internal/app/features/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
)

// Routes mounts the full /organizations subtree. Follow and post
// endpoints live under an organization, so their handlers register
// here on the same router.
func Routes(h *Handler, fh *follow.Handler, ph *posts.Handler) chi.Router {
	r := chi.NewRouter()

	// Readable without a session; private content is filtered per
	// caller inside the handlers.
	r.Get("/{id}", h.ServeView)
	r.Get("/by-handle/{handle}", h.ServeViewByHandle)
	r.Get("/{id}/children", h.ServeChildren)
	r.Get("/{id}/parent", h.ServeParent)
	r.Get("/{id}/posts", ph.ServeOrgPosts)
	r.Get("/{id}/followers", fh.ServeFollowers)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.Post("/", h.HandleCreate)
		r.Post("/{id}", h.HandleEdit)
		r.Post("/{id}/profile-photo", h.HandlePhoto)
		r.Post("/{id}/cover-photo", h.HandlePhoto)

		r.Post("/{id}/follow", fh.HandleRequestFollow)
		r.Post("/{id}/access-code", fh.HandleAccessCode)
		r.Post("/{id}/unfollow", fh.HandleUnfollow)
		r.Post("/{id}/admins", fh.HandleAddAdmin)
		r.Delete("/{id}/admins/{userID}", fh.HandleRemoveAdmin)

		r.Post("/{id}/posts", ph.HandleSubmit)
	})

	return r
}
