// internal/app/features/posts/handler.go
package posts

import (
	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/store/posts"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auditlog"
	"github.com/adityachugh/Announcements-Web/internal/app/system/notify"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the post workflow:
// submission, moderation, deletion, org listings, and the home feed.
type Handler struct {
	Posts     *poststore.Store
	Followers *followerstore.Store
	Orgs      *organizationstore.Store
	Policy    *orgpolicy.Policy
	Notifier  *notify.AdminNotifier
	Log       *zap.Logger

	// Audit records moderation actions; nil disables the trail.
	Audit *auditlog.Logger
}

func NewHandler(posts *poststore.Store, followers *followerstore.Store, orgs *organizationstore.Store, policy *orgpolicy.Policy, notifier *notify.AdminNotifier, logger *zap.Logger) *Handler {
	return &Handler{
		Posts:     posts,
		Followers: followers,
		Orgs:      orgs,
		Policy:    policy,
		Notifier:  notifier,
		Log:       logger,
	}
}
