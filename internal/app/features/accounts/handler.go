// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/store/users"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/auth"
	"github.com/adityachugh/Announcements-Web/internal/app/system/ratelimit"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
	"github.com/adityachugh/Announcements-Web/internal/domain/models"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for account management.
type Handler struct {
	Users  *userstore.Store
	Limits *ratelimit.LoginLimiter
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Limits: ratelimit.NewLoginLimiter(), Log: logger}
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
}

// HandleSignup creates an account and signs the new user in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}); err != nil {
		apperr.Write(w, h.Log, apperr.Wrap(apperr.Dependency, "session write failed", err))
		return
	}

	h.Log.Info("account created", zap.String("user_id", u.ID.Hex()))
	shared.JSON(w, http.StatusCreated, toUserResponse(u))
}

// HandleLogin verifies credentials and starts a session.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	if ok, reason := h.Limits.Check(r, in.Email); !ok {
		h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		shared.JSON(w, http.StatusTooManyRequests, map[string]string{"error": reason})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	h.Limits.ResetEmail(in.Email)

	if err := auth.SignIn(w, r, auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}); err != nil {
		apperr.Write(w, h.Log, apperr.Wrap(apperr.Dependency, "session write failed", err))
		return
	}

	shared.JSON(w, http.StatusOK, toUserResponse(u))
}

// HandleLogout clears the session. Always succeeds from the client's
// point of view.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
