// internal/app/features/profile/handler.go
package profile

import (
	"net/http"

	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"go.uber.org/zap"
)

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type selfUpdate struct {
	FullName string `json:"full_name"`
}

// ServeMe handles GET /me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	httpapi.JSON(w, http.StatusOK, user)
}

// ServeUpdateMe handles PUT /me. Self-service updates cover the display
// name only; email is the identity key and role changes are admin-only.
func (h *Handler) ServeUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var req selfUpdate
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	upd := *user
	upd.FullName = req.FullName

	saved, err := h.Users.ReplaceByEmail(r.Context(), user.Email, upd)
	if err != nil {
		h.Log.Error("profile: update failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, saved)
}
