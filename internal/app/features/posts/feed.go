// internal/app/features/posts/feed.go
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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeFeed handles GET /feed: live posts from the caller's followed
// organizations, plus escalated (notify_parent) posts from those
// organizations' descendants. Ordered by priority, then recency.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	followedIDs, err := h.Followers.ListMemberOrgIDs(ctx, res.UserID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if len(followedIDs) == 0 {
		shared.JSON(w, http.StatusOK, map[string]any{"posts": []postResponse{}})
		return
	}

	childIDs := h.escalationSources(ctx, followedIDs)

	posts, err := h.Posts.Feed(ctx, followedIDs, childIDs, time.Now().UTC(), paging.ParseRange(r))
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]any{"posts": toPostResponses(posts)})
}

// escalationSources collects the descendants of the followed
// organizations whose escalated posts surface in the feed. A lookup
// failure degrades the feed to followed-only rather than failing it.
func (h *Handler) escalationSources(ctx context.Context, followedIDs []primitive.ObjectID) []primitive.ObjectID {
	followed := make(map[primitive.ObjectID]bool, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = true
	}

	seen := map[primitive.ObjectID]bool{}
	var childIDs []primitive.ObjectID
	for _, orgID := range followedIDs {
		descendants, err := h.Orgs.ListDescendantIDs(ctx, orgID)
		if err != nil {
			h.Log.Warn("descendant lookup for feed failed",
				zap.String("organization_id", orgID.Hex()),
				zap.Error(err))
			continue
		}
		for _, id := range descendants {
			if followed[id] || seen[id] {
				continue
			}
			seen[id] = true
			childIDs = append(childIDs, id)
		}
	}
	return childIDs
}
