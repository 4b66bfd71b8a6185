// Package gates provides authorization gate functions for HTTP handlers.
// Gates check authentication and authorization at the top of a handler,
// writing the JSON error response themselves when a check fails.
//
// Authorization is layered:
//
//  1. Route-Level Middleware (auth.RequireSignedIn)
//     Applied in routes.go files so that every route in a group requires
//     a signed-in user.
//
//  2. Handler-Level Gates (this package)
//     Resolve the caller's identity, and for admin gates, their
//     relationship to the organization in question.
//
//  3. Policy Layer (internal/app/policy/orgpolicy)
//     Resource-specific authorization requiring database lookups, such
//     as whether a post's moderation can escalate to a parent
//     organization's admins. Policies return (bool, error); callers
//     handle error rendering.
//
// Because permissions are per organization, gates that check admin
// access need the organization ID and a policy to ask.
package gates

import (
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/policy/orgpolicy"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Result contains the result of an authorization gate check.
type Result struct {
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated. If not, it writes a 401
// JSON error and returns OK=false.
func RequireAuth(w http.ResponseWriter, r *http.Request, logger *zap.Logger) Result {
	name, uid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, logger, apperr.New(apperr.Unauthenticated, "sign in required"))
		return Result{OK: false}
	}
	return Result{Name: name, UserID: uid, OK: true}
}

// RequireOrgAdmin ensures the user is authenticated and administers the
// given organization. Failures are written as 401/403 JSON errors.
func RequireOrgAdmin(w http.ResponseWriter, r *http.Request, logger *zap.Logger, pol *orgpolicy.Policy, orgID primitive.ObjectID) Result {
	res := RequireAuth(w, r, logger)
	if !res.OK {
		return res
	}
	if err := pol.RequireOrgAdmin(r.Context(), r, orgID); err != nil {
		apperr.Write(w, logger, err)
		return Result{OK: false}
	}
	return res
}
