// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/adityachugh/Announcements-Web/internal/app/features/follow"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
)

// Routes mounts the caller's own profile under the base path
// (typically "/me"). The followed-organizations listing comes from the
// follow handler since it reads relationship state.
func Routes(h *Handler, fh *follow.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.ServeProfile)
	r.Post("/description", h.HandleDescription)
	r.Post("/profile-photo", h.HandleProfilePhoto)
	r.Post("/cover-photo", h.HandleCoverPhoto)

	r.Get("/organizations", fh.ServeFollowedOrganizations)

	r.Post("/devices", h.HandleRegisterDevice)
	r.Post("/devices/unregister", h.HandleUnregisterDevice)

	return r
}
