// internal/app/features/profile/devices.go
package profile

import (
	"context"
	"net/http"

	"github.com/adityachugh/Announcements-Web/internal/app/features/shared"
	"github.com/adityachugh/Announcements-Web/internal/app/system/apperr"
	"github.com/adityachugh/Announcements-Web/internal/app/system/gates"
	"github.com/adityachugh/Announcements-Web/internal/app/system/timeouts"
)

type deviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type deviceResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// HandleRegisterDevice handles POST /me/devices. Registering a token
// already owned by another account moves it to the caller.
func (h *Handler) HandleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in deviceRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Devices.Register(ctx, res.UserID, in.Token, in.Platform)
	if err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, deviceResponse{
		ID:       d.ID.Hex(),
		Token:    d.Token,
		Platform: d.Platform,
	})
}

type unregisterRequest struct {
	Token string `json:"token"`
}

// HandleUnregisterDevice handles POST /me/devices/unregister. Removing
// a token that is not registered to the caller is a no-op.
func (h *Handler) HandleUnregisterDevice(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAuth(w, r, h.Log)
	if !res.OK {
		return
	}

	var in unregisterRequest
	if err := shared.Decode(r, &in); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	if in.Token == "" {
		apperr.Write(w, h.Log, apperr.New(apperr.Validation, "token is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Devices.Unregister(ctx, res.UserID, in.Token); err != nil {
		apperr.Write(w, h.Log, err)
		return
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
