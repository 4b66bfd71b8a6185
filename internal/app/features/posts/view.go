// internal/app/features/posts/view.go
package posts

import (
	"context"
	"net/http"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/paging"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
)

// ServeView handles GET /posts/{id}. Visibility follows the workflow:
// live approved posts follow the organization's rules, pending and
// rejected ones are limited to the author and moderators.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
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
	org, err := h.Orgs.GetByID(ctx, post.OrganizationID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	canView, err := h.Policy.CanViewPost(ctx, r, post, org)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if !canView {
		// Hidden posts are indistinguishable from absent ones.
		apperr.Write(w, h.Log, apperr.New(apperr.NotFound, "post not found"))
		return
	}
	shared.JSON(w, http.StatusOK, toPostResponse(post))
}

// ServeOrgPosts handles GET /organizations/{id}/posts.
//
// Members see the organization's live posts. Admins additionally see
// pending, rejected, and out-of-window posts (the moderation view).
func (h *Handler) ServeOrgPosts(w http.ResponseWriter, r *http.Request) {
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

	admin, err := h.Policy.IsOrgAdmin(ctx, r, orgID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if !admin {
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

	posts, err := h.Posts.ListForOrg(ctx, orgID, admin, time.Now().UTC(), paging.ParseRange(r))
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"posts": toPostResponses(posts)})
}
