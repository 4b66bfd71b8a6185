// internal/app/features/organizations/handler.go
package organizations

import (
	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/store/followers"
	"github.com/adityachugh/Announcements-Web/internal/app/store/organizations"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Organizations.
type Handler struct {
	Orgs      *organizationstore.Store
	Followers *followerstore.Store
	Policy    *orgpolicy.Policy
	Log       *zap.Logger
}

// NewHandler constructs a new Organizations handler.
func NewHandler(orgs *organizationstore.Store, followers *followerstore.Store, policy *orgpolicy.Policy, logger *zap.Logger) *Handler {
	return &Handler{
		Orgs:      orgs,
		Followers: followers,
		Policy:    policy,
		Log:       logger,
	}
}
