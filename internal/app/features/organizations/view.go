// internal/app/features/organizations/view.go
package organizations

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeView handles GET /organizations/{id}. The organization's card
// is public even for private organizations; only its content is gated.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByID(ctx, id)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if admin, err := h.Policy.IsOrgAdmin(ctx, r, org.ID); err == nil && admin {
		shared.JSON(w, http.StatusOK, toAdminOrgResponse(org))
		return
	}
	shared.JSON(w, http.StatusOK, toOrgResponse(org))
}

// ServeViewByHandle handles GET /organizations/by-handle/{handle}.
func (h *Handler) ServeViewByHandle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, err := h.Orgs.GetByHandle(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, toOrgResponse(org))
}

// ServeChildren handles GET /organizations/{id}/children.
func (h *Handler) ServeChildren(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	children, err := h.Orgs.ListChildren(ctx, id, paging.ParseRange(r))
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"organizations": toOrgResponses(children)})
}

// ServeParent handles GET /organizations/{id}/parent. A root
// organization yields 404.
func (h *Handler) ServeParent(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	parent, err := h.Orgs.GetParent(ctx, id)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, toOrgResponse(parent))
}
