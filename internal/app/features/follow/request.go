// internal/app/features/follow/request.go
package follow

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.uber.org/zap"
)

// HandleRequestFollow handles POST /organizations/{id}/follow.
//
// Public organizations make the caller a follower immediately; private
// ones queue a pending request and ping the organization's admins.
// Repeating the request never regresses an existing relationship.
func (h *Handler) HandleRequestFollow(w http.ResponseWriter, r *http.Request) {
	orgID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rel, err := h.Followers.RequestFollow(ctx, res.UserID, orgID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if rel.State == models.StatePending {
		h.Notifier.FollowRequested(ctx, orgID, res.Name)
	}

	h.Log.Info("follow requested",
		zap.String("user_id", res.UserID.Hex()),
		zap.String("organization_id", orgID.Hex()),
		zap.String("state", string(rel.State)))
	shared.JSON(w, http.StatusOK, toRelationshipResponse(rel))
}

// HandleAccessCode handles POST /organizations/{id}/access-code.
//
// The correct code joins immediately as follower. A wrong code still
// records (or keeps) a pending request, and reports accepted=false so
// the client can tell the user to wait for an admin.
func (h *Handler) HandleAccessCode(w http.ResponseWriter, r *http.Request) {
	orgID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in accessCodeRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rel, accepted, err := h.Followers.SubmitAccessCode(ctx, res.UserID, orgID, in.Code)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if !accepted && rel.State == models.StatePending {
		h.Notifier.FollowRequested(ctx, orgID, res.Name)
	}

	shared.JSON(w, http.StatusOK, map[string]any{
		"accepted":     accepted,
		"relationship": toRelationshipResponse(rel),
	})
}

// HandleUnfollow handles POST /organizations/{id}/unfollow.
func (h *Handler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	orgID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rel, err := h.Followers.Unfollow(ctx, res.UserID, orgID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, toRelationshipResponse(rel))
}
