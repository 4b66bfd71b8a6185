// Package orgpolicy provides authorization policies derived from
// follower relationships.
//
// There are no global roles: every permission is answered per
// organization from the caller's relationship state.
//
// Authorization rules:
//   - Admins of an organization can manage it, decide follow requests,
//     and moderate its posts
//   - Admins of a parent organization can additionally moderate a
//     child's posts when the post escalated to them (parent
//     notification requested, or parent approval required)
//   - Followers and admins (members) can view a private organization's
//     content; anyone can view a public organization's content
package orgpolicy

import (
	"context"
	"net/http"
	"time"

	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/authz"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy answers authorization questions from relationship state.
type Policy struct {
	followers *followerstore.Store
	orgs      *organizationstore.Store
}

func New(followers *followerstore.Store, orgs *organizationstore.Store) *Policy {
	return &Policy{followers: followers, orgs: orgs}
}

// IsOrgAdmin reports whether the current user is an admin of the
// organization.
func (p *Policy) IsOrgAdmin(ctx context.Context, r *http.Request, orgID primitive.ObjectID) (bool, error) {
	userID, ok := authz.UserID(r)
	if !ok {
		return false, nil
	}
	return p.followers.IsAdmin(ctx, userID, orgID)
}

// RequireOrgAdmin is IsOrgAdmin expressed as an error: nil when the
// caller administers the organization, Forbidden otherwise.
func (p *Policy) RequireOrgAdmin(ctx context.Context, r *http.Request, orgID primitive.ObjectID) error {
	ok, err := p.IsOrgAdmin(ctx, r, orgID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.New(apperr.Forbidden, "organization admin access required")
	}
	return nil
}

// CanViewOrg reports whether the current user may see an
// organization's content. Public organizations are open to everyone;
// private ones require membership.
func (p *Policy) CanViewOrg(ctx context.Context, r *http.Request, org models.Organization) (bool, error) {
	if !org.IsPrivate() {
		return true, nil
	}
	userID, ok := authz.UserID(r)
	if !ok {
		return false, nil
	}
	return p.followers.IsMember(ctx, userID, org.ID)
}

// CanModeratePost reports whether the current user may approve or
// reject the post. Admins of the owning organization always can.
// Admins of the parent organization can as well when the post was
// escalated there, either by the author requesting parent notification
// or by the owning organization requiring parent approval for all of
// its content.
func (p *Policy) CanModeratePost(ctx context.Context, r *http.Request, post models.Post) (bool, error) {
	ok, err := p.IsOrgAdmin(ctx, r, post.OrganizationID)
	if err != nil || ok {
		return ok, err
	}

	escalated := post.NotifyParent
	if !escalated && post.ApprovalRequired {
		org, err := p.orgs.GetByID(ctx, post.OrganizationID)
		if err != nil {
			return false, err
		}
		escalated = org.ParentApprovalRequired
	}
	if !escalated {
		return false, nil
	}

	parent, err := p.orgs.GetParent(ctx, post.OrganizationID)
	if apperr.IsKind(err, apperr.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsOrgAdmin(ctx, r, parent.ID)
}

// CanViewPost reports whether the current user may read the post.
// Approved posts inside their display window follow the organization's
// visibility rules; pending and rejected posts are limited to the
// author and anyone who could moderate them.
func (p *Policy) CanViewPost(ctx context.Context, r *http.Request, post models.Post, org models.Organization) (bool, error) {
	if post.IsDeleted {
		return false, nil
	}
	if post.Status == models.PostApproved && post.VisibleAt(time.Now().UTC()) {
		return p.CanViewOrg(ctx, r, org)
	}

	if userID, ok := authz.UserID(r); ok && userID == post.CreatedBy {
		return true, nil
	}
	return p.CanModeratePost(ctx, r, post)
}
