// internal/app/features/systemusers/handler.go
package systemusers

import (
	"net/http"

	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler is the admin-only user management surface. Role and disabled
// changes happen here; the access guard has already required an active
// admin before any of these run.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type userPayload struct {
	Email    string      `json:"email"`
	FullName string      `json:"full_name,omitempty"`
	Disabled bool        `json:"disabled"`
	Role     models.Role `json:"role,omitempty"`
}

// ServeList handles GET /auth/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		h.Log.Error("systemusers: list failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}
	httpapi.JSON(w, http.StatusOK, users)
}

// ServeCreate handles POST /auth/users: admin-created accounts may carry
// any role or disabled state from the start.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req userPayload
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Email == "" {
		httpapi.Error(w, http.StatusBadRequest, "An email is required.")
		return
	}

	created, err := h.Users.Create(r.Context(), models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Disabled: req.Disabled,
		Role:     req.Role,
	})
	if err == userstore.ErrDuplicateEmail {
		httpapi.Error(w, http.StatusBadRequest, "A user with that email already exists")
		return
	}
	if err != nil {
		h.Log.Error("systemusers: create failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusCreated, created)
}

// ServeGet handles GET /auth/users/{email}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.Users.GetByEmail(r.Context(), email)
	if err == userstore.ErrNotFound {
		httpapi.Error(w, http.StatusNotFound, "Could not find matching user.")
		return
	}
	if err != nil {
		h.Log.Error("systemusers: get failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, user)
}

// ServeUpdate handles PUT /auth/users/{email}: full replace of the mutable
// fields. The path email is the identity; an email in the body is ignored.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req userPayload
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	saved, err := h.Users.ReplaceByEmail(r.Context(), email, models.User{
		FullName: req.FullName,
		Disabled: req.Disabled,
		Role:     req.Role,
	})
	if err == userstore.ErrNotFound {
		httpapi.Error(w, http.StatusNotFound, "Could not find matching user.")
		return
	}
	if err != nil {
		h.Log.Error("systemusers: update failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, saved)
}

// ServeDelete handles DELETE /auth/users/{email}. Deleting an absent user
// is a no-op, not an error.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.Users.DeleteByEmail(r.Context(), email); err != nil {
		h.Log.Error("systemusers: delete failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusOK, "User Deleted")
}
