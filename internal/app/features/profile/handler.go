// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/store/devices"
	"github.com/adityachugh/Announcements-Web/internal/app/store/users"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for the caller's own
// profile and devices.
type Handler struct {
	Users   *userstore.Store
	Devices *devicestore.Store
	Log     *zap.Logger
}

func NewHandler(users *userstore.Store, devices *devicestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Devices: devices, Log: logger}
}

type profileResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Description     string `json:"description,omitempty"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	CoverPhotoURL   string `json:"cover_photo_url,omitempty"`
}

func toProfileResponse(u models.User) profileResponse {
	return profileResponse{
		ID:              u.ID.Hex(),
		Name:            u.Name,
		Email:           u.Email,
		Description:     u.Description,
		ProfilePhotoURL: u.ProfilePhotoURL,
		CoverPhotoURL:   u.CoverPhotoURL,
	}
}

// ServeProfile handles GET /me.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, res.UserID)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, toProfileResponse(u))
}

type descriptionRequest struct {
	Description string `json:"description"`
}

// HandleDescription handles POST /me/description.
func (h *Handler) HandleDescription(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in descriptionRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateDescription(ctx, res.UserID, in.Description); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type photoRequest struct {
	URL string `json:"url"`
}

// HandleProfilePhoto handles POST /me/profile-photo.
func (h *Handler) HandleProfilePhoto(w http.ResponseWriter, r *http.Request) {
	h.updatePhoto(w, r, h.Users.UpdateProfilePhoto)
}

// HandleCoverPhoto handles POST /me/cover-photo.
func (h *Handler) HandleCoverPhoto(w http.ResponseWriter, r *http.Request) {
	h.updatePhoto(w, r, h.Users.UpdateCoverPhoto)
}

func (h *Handler) updatePhoto(w http.ResponseWriter, r *http.Request, update func(context.Context, primitive.ObjectID, string) error) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in photoRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if in.URL == "" {
		apperr.Write(w, h.Log, apperr.New(apperr.Validation, "url is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := update(ctx, res.UserID, in.URL); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
