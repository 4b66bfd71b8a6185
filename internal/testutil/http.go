// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handlers directly instead of
// going through a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SignedInAs injects a session user into the request context, bypassing
// the cookie round trip. The returned ObjectID is the injected user's ID.
func SignedInAs(r *http.Request, userID primitive.ObjectID, name, email string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    userID.Hex(),
		Name:  name,
		Email: email,
	})
}
