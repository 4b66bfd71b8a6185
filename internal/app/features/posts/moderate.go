// internal/app/features/posts/moderate.go
package posts

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auditlog"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDecide handles POST /posts/{id}/decide. Admins of the owning
// organization can always decide; when the post escalated to the
// parent, the parent's admins can too.
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	postID, err := shared.ObjectIDParam(r, "id")
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
	if !in.Approve && in.Reason == "" {
		apperr.Write(w, h.Log, apperr.New(apperr.Validation, "a rejection needs a reason"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	canModerate, err := h.Policy.CanModeratePost(ctx, r, post)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if !canModerate {
		apperr.Write(w, h.Log, apperr.New(apperr.Forbidden, "moderation rights required"))
		return
	}

	decided, err := h.Posts.Decide(ctx, postID, res.UserID, in.Approve, in.Reason, in.Priority)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	// Tell the owning organization's admins what was decided. The post
	// may have been decided by a parent admin they never see.
	h.Notifier.PostDecided(ctx, post.OrganizationID, decided, in.Approve)

	eventType := auditlog.EventPostApproved
	if !in.Approve {
		eventType = auditlog.EventPostRejected
	}
	h.Audit.Record(ctx, auditlog.Event{
		EventType:      eventType,
		ActorID:        res.UserID,
		SubjectID:      &postID,
		OrganizationID: &post.OrganizationID,
		Detail:         in.Reason,
	})

	h.Log.Info("post decided",
		zap.String("post_id", postID.Hex()),
		zap.Bool("approved", in.Approve),
		zap.String("moderator_id", res.UserID.Hex()))
	shared.JSON(w, http.StatusOK, toPostResponse(decided))
}

// HandleDelete handles POST /posts/{id}/delete (owning-org admin only).
// Deleting twice is a no-op, not an error.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := shared.ObjectIDParam(r, "id")
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

	post, err := h.Posts.GetByID(ctx, postID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if err := h.Policy.RequireOrgAdmin(ctx, r, post.OrganizationID); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if err := h.Posts.SoftDelete(ctx, postID); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	h.Audit.Record(ctx, auditlog.Event{
		EventType:      auditlog.EventPostDeleted,
		ActorID:        res.UserID,
		SubjectID:      &postID,
		OrganizationID: &post.OrganizationID,
	})

	h.Log.Info("post deleted",
		zap.String("post_id", postID.Hex()),
		zap.String("actor_id", res.UserID.Hex()))
	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
