// internal/app/features/follow/handler.go
package follow

import (
	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"github.com/adityachugh/Announcements-Web/internal/app/store/users"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auditlog"
	"github.com/adityachugh/Announcements-Web/internal/app/system/notify"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the follow lifecycle:
// requesting, access codes, admin decisions, unfollowing, and the
// follower/admin rosters.
type Handler struct {
	Followers *followerstore.Store
	Orgs      *organizationstore.Store
	Users     *userstore.Store
	Policy    *orgpolicy.Policy
	Notifier  *notify.AdminNotifier
	Log       *zap.Logger

	// Audit records moderation actions; nil disables the trail.
	Audit *auditlog.Logger
}

func NewHandler(followers *followerstore.Store, orgs *organizationstore.Store, users *userstore.Store, policy *orgpolicy.Policy, notifier *notify.AdminNotifier, logger *zap.Logger) *Handler {
	return &Handler{
		Followers: followers,
		Orgs:      orgs,
		Users:     users,
		Policy:    policy,
		Notifier:  notifier,
		Log:       logger,
	}
}
