// internal/app/features/follow/manage.go
package follow

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auditlog"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleDecide handles POST /follow-requests/{id}/decide. The decider
// must administer the organization the request targets.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	relID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in decideRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Authorize against the target organization before touching state.
	rel, err := h.Followers.GetByID(ctx, relID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if err := h.Policy.RequireOrgAdmin(ctx, r, rel.OrganizationID); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	decided, err := h.Followers.Decide(ctx, relID, res.UserID, in.Approve)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	// Push the outcome to the requester's devices.
	orgName := ""
	if org, err := h.Orgs.GetByID(ctx, rel.OrganizationID); err == nil {
		orgName = org.Name
	}
	h.Notifier.FollowDecided(ctx, rel.OrganizationID, orgName, rel.UserID, in.Approve)

	eventType := auditlog.EventFollowApproved
	if !in.Approve {
		eventType = auditlog.EventFollowRejected
	}
	h.Audit.Record(ctx, auditlog.Event{
		EventType:      eventType,
		ActorID:        res.UserID,
		SubjectID:      &relID,
		OrganizationID: &rel.OrganizationID,
	})

	h.Log.Info("follow request decided",
		zap.String("relationship_id", relID.Hex()),
		zap.String("organization_id", rel.OrganizationID.Hex()),
		zap.Bool("approved", in.Approve),
		zap.String("decider_id", res.UserID.Hex()))
	shared.JSON(w, http.StatusOK, toRelationshipResponse(decided))
}

// ServeFollowers handles GET /organizations/{id}/followers.
//
// Admins see the moderation roster: pending requests first, then
// admins, then followers. Everyone else sees only members, and only
// for organizations whose content they can view.
func (h *Handler) ServeFollowers(w http.ResponseWriter, r *http.Request) {
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

	org, err := h.Orgs.GetByID(ctx, orgID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	adminView, err := h.Policy.IsOrgAdmin(ctx, r, orgID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if !adminView {
		canView, err := h.Policy.CanViewOrg(ctx, r, org)
		if err != nil {
			apperr.Write(w, h.Log, err)
			return
		}
		if !canView {
			apperr.Write(w, h.Log, apperr.New(apperr.Forbidden, "membership required"))
			return
		}
	}

	rels, err := h.Followers.ListForOrg(ctx, orgID, adminView, paging.ParseRange(r))
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	shared.JSON(w, http.StatusOK, map[string]any{
		"followers": h.decorate(ctx, rels),
	})
}

// decorate attaches user names to relationships for roster display.
func (h *Handler) decorate(ctx context.Context, rels []models.FollowerRelationship) []relationshipResponse {
	ids := make([]primitive.ObjectID, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.UserID)
	}
	users, err := h.Users.ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("follower roster user lookup failed", zap.Error(err))
		users = nil
	}

	out := make([]relationshipResponse, 0, len(rels))
	for _, rel := range rels {
		resp := toRelationshipResponse(rel)
		if u, ok := users[rel.UserID]; ok {
			resp.UserName = u.Name
		}
		out = append(out, resp)
	}
	return out
}

// HandleAddAdmin handles POST /organizations/{id}/admins.
func (h *Handler) HandleAddAdmin(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, true)
}

// HandleRemoveAdmin handles DELETE /organizations/{id}/admins/{userID}.
func (h *Handler) HandleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	h.setAdmin(w, r, false)
}

func (h *Handler) setAdmin(w http.ResponseWriter, r *http.Request, grant bool) {
	orgID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireOrgAdmin(w, r, h.Log, h.Policy, orgID)
	if !res.OK {
		return
	}

	var targetID primitive.ObjectID
	if grant {
		var in adminRequest
		if err := shared.Decode(r, &in); err != nil {
			apperr.Write(w, h.Log, err)
			return
		}
		targetID, err = primitive.ObjectIDFromHex(in.UserID)
		if err != nil {
			apperr.Write(w, h.Log, apperr.New(apperr.Validation, "invalid user_id"))
			return
		}
	} else {
		targetID, err = shared.ObjectIDParam(r, "userID")
		if err != nil {
			apperr.Write(w, h.Log, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rel, err := h.Followers.SetAdmin(ctx, orgID, targetID, res.UserID, grant)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	eventType := auditlog.EventAdminGranted
	if !grant {
		eventType = auditlog.EventAdminRevoked
	}
	h.Audit.Record(ctx, auditlog.Event{
		EventType:      eventType,
		ActorID:        res.UserID,
		SubjectID:      &targetID,
		OrganizationID: &orgID,
	})

	h.Log.Info("admin rights changed",
		zap.String("organization_id", orgID.Hex()),
		zap.String("target_id", targetID.Hex()),
		zap.String("actor_id", res.UserID.Hex()),
		zap.Bool("granted", grant))
	shared.JSON(w, http.StatusOK, toRelationshipResponse(rel))
}

// ServeFollowedOrganizations handles GET /me/organizations: the
// organizations the caller follows or administers.
func (h *Handler) ServeFollowedOrganizations(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	orgIDs, err := h.Followers.ListMemberOrgIDs(ctx, res.UserID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	orgs, err := h.Orgs.ListByIDs(ctx, orgIDs)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	out := make([]map[string]any, 0, len(orgIDs))
	for _, id := range orgIDs {
		org, ok := orgs[id]
		if !ok {
			continue
		}
		out = append(out, map[string]any{
			"id":     org.ID.Hex(),
			"name":   org.Name,
			"handle": org.Handle,
		})
	}
	shared.JSON(w, http.StatusOK, map[string]any{"organizations": out})
}
