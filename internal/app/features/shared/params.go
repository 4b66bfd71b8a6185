// internal/app/features/shared/params.go
package shared

import (
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectIDParam extracts a URL parameter as a Mongo ObjectID.
// A missing or malformed value is a Validation error, not a 404: the
// route matched, the identifier is junk.
func ObjectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.Newf(apperr.Validation, "invalid %s", name)
	}
	return id, nil
}
