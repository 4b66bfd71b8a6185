// internal/app/features/organizations/create.go
package organizations

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate creates an organization. The creator becomes its first
// admin so the new organization is never orphaned.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in createRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	org := models.Organization{
		Name:                   in.Name,
		Handle:                 in.Handle,
		Visibility:             in.Visibility,
		AccessCode:             in.AccessCode,
		ParentApprovalRequired: in.ParentApprovalRequired,
		Description:            in.Description,
	}
	if in.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(in.ParentID)
		if err != nil {
			apperr.Write(w, h.Log, apperr.New(apperr.Validation, "invalid parent_id"))
			return
		}
		org.ParentID = &pid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	created, err := h.Orgs.Create(ctx, org)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if err := h.Followers.SeedAdmin(ctx, res.UserID, created.ID); err != nil {
		// The organization exists; an admin can be added manually.
		h.Log.Error("seeding creator admin failed",
			zap.String("organization_id", created.ID.Hex()),
			zap.String("user_id", res.UserID.Hex()),
			zap.Error(err))
	}

	h.Log.Info("organization created",
		zap.String("organization_id", created.ID.Hex()),
		zap.String("handle", created.Handle))
	shared.JSON(w, http.StatusCreated, toAdminOrgResponse(created))
}
