// internal/app/features/follow/routes.go
package follow

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
)

// RequestRoutes mounts follow-request moderation under the base path
// (typically "/follow-requests" from bootstrap). The follow/unfollow
// endpoints themselves register on the organizations subtree.
func RequestRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/{id}/decide", h.HandleDecide)
	return r
}
