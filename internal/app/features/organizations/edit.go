// internal/app/features/organizations/edit.go
package organizations

import (
	"context"
	"net/http"
	"strings"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleEdit handles POST /organizations/{id}/edit (admin only).
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireOrgAdmin(w, r, h.Log, h.Policy, id)
	if !res.OK {
		return
	}

	var in editRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.Orgs.UpdateInfo(ctx, id, organizationstore.InfoUpdate{
		Name:                   in.Name,
		Description:            in.Description,
		Visibility:             in.Visibility,
		AccessCode:             in.AccessCode,
		ParentApprovalRequired: in.ParentApprovalRequired,
	})
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	h.Log.Info("organization updated",
		zap.String("organization_id", id.Hex()),
		zap.String("actor_id", res.UserID.Hex()))
	shared.JSON(w, http.StatusOK, toAdminOrgResponse(org))
}

// HandlePhoto handles POST /organizations/{id}/profile-photo and
// POST /organizations/{id}/cover-photo (admin only). Body carries the
// uploaded file's URL; binary upload happens elsewhere.
func (h *Handler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireOrgAdmin(w, r, h.Log, h.Policy, id)
	if !res.OK {
		return
	}

	var in photoRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if strings.TrimSpace(in.URL) == "" {
		apperr.Write(w, h.Log, apperr.New(apperr.Validation, "url is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if strings.HasSuffix(r.URL.Path, "/cover-photo") {
		err = h.Orgs.UpdateCoverPhoto(ctx, id, in.URL)
	} else {
		err = h.Orgs.UpdateProfilePhoto(ctx, id, in.URL)
	}
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
