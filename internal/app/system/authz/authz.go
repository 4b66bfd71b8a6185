// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it
// returns "", NilObjectID, false. ok=true therefore always means a
// valid, authenticated user with a valid ObjectID.
//
// Note there is no role here: "is this user an admin of organization X"
// is a per-organization question answered by orgpolicy from the
// follower relationship, not by the session.
func UserCtx(r *http.Request) (name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "", primitive.NilObjectID, false
	}
	return user.Name, userID, true
}

// UserID is UserCtx without the name, for handlers that only need the ID.
func UserID(r *http.Request) (primitive.ObjectID, bool) {
	_, id, ok := UserCtx(r)
	return id, ok
}
