// internal/app/features/posts/submit.go
package posts

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/store/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/limits"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.uber.org/zap"
)

// HandleSubmit handles POST /organizations/{id}/posts (admin only).
//
// A post that needs approval (the organization requires parent
// approval, or the author asked to notify the parent) starts PENDING;
// otherwise it is APPROVED on arrival. Either way, when the
// organization has a parent its admins are pinged about the new post.
// The ping is best effort: a failure never fails the submission.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	orgID, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	res := gates.RequireOrgAdmin(w, r, h.Log, h.Policy, orgID)
	if !res.OK {
		return
	}

	var in submitRequest
	if err := shared.DecodeLimited(r, &in, limits.MaxPostBodySize); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	post, err := h.Posts.Create(ctx, poststore.CreateInput{
		OrganizationID: orgID,
		Title:          in.Title,
		Body:           in.Body,
		ImageURL:       in.ImageURL,
		Priority:       in.Priority,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		NotifyParent:   in.NotifyParent,
		CreatedBy:      res.UserID,
	})
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	h.notifyParentAdmins(ctx, post)

	h.Log.Info("post submitted",
		zap.String("post_id", post.ID.Hex()),
		zap.String("organization_id", orgID.Hex()),
		zap.String("status", string(post.Status)))
	shared.JSON(w, http.StatusCreated, toPostResponse(post))
}

// notifyParentAdmins pings the parent organization's admins about
// every new post; they are the ones who review escalated content.
// A root organization has no parent, so a pending post there falls
// back to the owning organization's own admins.
func (h *Handler) notifyParentAdmins(ctx context.Context, post models.Post) {
	parent, err := h.Orgs.GetParent(ctx, post.OrganizationID)
	switch {
	case err == nil:
		h.Notifier.PostSubmitted(ctx, parent.ID, post)
	case apperr.IsKind(err, apperr.NotFound):
		if post.Status == models.PostPending {
			h.Notifier.PostSubmitted(ctx, post.OrganizationID, post)
		}
	default:
		h.Log.Warn("parent lookup for submission ping failed",
			zap.String("post_id", post.ID.Hex()),
			zap.Error(err))
	}
}
