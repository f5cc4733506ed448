// internal/app/features/login/handler.go
package login

import (
	"fmt"
	"net/http"
	"time"

	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"github.com/dalemusser/scorehub/internal/app/system/mailer"
	"github.com/dalemusser/scorehub/internal/app/system/normalize"
	"github.com/dalemusser/scorehub/internal/app/system/passcode"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"go.uber.org/zap"
)

// ConfirmMagicMount is where magic links land; the issued URL points here.
const ConfirmMagicMount = "/auth/confirm-magic"

type Handler struct {
	Users     *userstore.Store
	Passcodes *passcode.Service
	Auth      *auth.Manager
	Mailer    mailer.Sender
	Log       *zap.Logger
}

func NewHandler(users *userstore.Store, passcodes *passcode.Service, authMgr *auth.Manager, sender mailer.Sender, logger *zap.Logger) *Handler {
	return &Handler{
		Users:     users,
		Passcodes: passcodes,
		Auth:      authMgr,
		Mailer:    sender,
		Log:       logger,
	}
}

// formatExpiry renders a credential lifetime for email copy,
// e.g. "5 minutes".
func formatExpiry(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

type authRequest struct {
	Email string `json:"email"`
	Next  string `json:"next,omitempty"`
}

type otpConfirm struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type magicConfirm struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type registration struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// requestableUser loads the user for a login request and writes the error
// response when issuance must not happen. The disabled check runs before any
// code is generated, so disabled accounts never receive credentials.
func (h *Handler) requestableUser(w http.ResponseWriter, r *http.Request, email string) *models.User {
	user, err := h.Users.GetByEmail(r.Context(), email)
	if err == userstore.ErrNotFound {
		httpapi.Error(w, http.StatusBadRequest, "No user with that email.")
		return nil
	}
	if err != nil {
		h.Log.Error("login: user lookup failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return nil
	}
	if user.Disabled {
		httpapi.Error(w, http.StatusUnauthorized, "This user is disabled.")
		return nil
	}
	return user
}

// ServeRequest handles POST /auth/request: issue a one-time code and email it.
func (h *Handler) ServeRequest(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user := h.requestableUser(w, r, req.Email)
	if user == nil {
		return
	}

	code, err := h.Passcodes.IssueOTP(r.Context(), user.Email)
	if err != nil {
		h.Log.Error("login: issue otp failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	email := mailer.BuildOTPEmail(mailer.OTPEmailData{
		Code:      code,
		ExpiresIn: formatExpiry(h.Passcodes.TTL()),
	})
	email.To = user.Email
	if err := h.Mailer.Send(email); err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "Could not send email.")
		return
	}

	httpapi.JSON(w, http.StatusOK, "Please check your email for a single use password.")
}

// ServeRequestMagic handles POST /auth/request-magic: issue a magic link and
// email it. The optional next location rides along in the link.
func (h *Handler) ServeRequestMagic(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user := h.requestableUser(w, r, req.Email)
	if user == nil {
		return
	}

	link, err := h.Passcodes.IssueMagicLink(r.Context(), user.Email, req.Next, ConfirmMagicMount)
	if err != nil {
		h.Log.Error("login: issue magic link failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	email := mailer.BuildMagicLinkEmail(mailer.MagicLinkEmailData{
		Link:      link,
		ExpiresIn: formatExpiry(h.Passcodes.TTL()),
	})
	email.To = user.Email
	if err := h.Mailer.Send(email); err != nil {
		httpapi.Error(w, http.StatusInternalServerError, "Could not send email.")
		return
	}

	httpapi.JSON(w, http.StatusOK, "Please check your email for your sign in link.")
}

// ServeConfirm handles POST /auth/confirm: verify the code and set the
// session cookie. Mismatches and unknown emails get the same response, so a
// caller cannot probe which emails exist through this endpoint.
func (h *Handler) ServeConfirm(w http.ResponseWriter, r *http.Request) {
	var req otpConfirm
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	email := normalize.Email(req.Email)
	if !h.authenticate(w, r, email, func() (bool, error) {
		return h.Passcodes.VerifyOTP(r.Context(), email, req.Code)
	}, "Invalid Email or Code") {
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}

// ServeConfirmMagic handles POST /auth/confirm-magic.
func (h *Handler) ServeConfirmMagic(w http.ResponseWriter, r *http.Request) {
	var req magicConfirm
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	email := normalize.Email(req.Email)
	if !h.authenticate(w, r, email, func() (bool, error) {
		return h.Passcodes.VerifyMagic(r.Context(), email, req.Secret)
	}, "Invalid Link") {
		return
	}

	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "authenticated"})
}

// authenticate runs the user lookup + credential check + cookie issuance
// shared by both confirm endpoints. It reports whether the caller may write
// a success response.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, email string, verify func() (bool, error), failMsg string) bool {
	user, err := h.Users.GetByEmail(r.Context(), email)
	if err == userstore.ErrNotFound {
		httpapi.Error(w, http.StatusBadRequest, failMsg)
		return false
	}
	if err != nil {
		h.Log.Error("confirm: user lookup failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return false
	}

	ok, err := verify()
	if err != nil {
		h.Log.Error("confirm: verification failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return false
	}
	if !ok {
		httpapi.Error(w, http.StatusBadRequest, failMsg)
		return false
	}

	if err := h.Auth.SignIn(w, user.Email); err != nil {
		h.Log.Error("confirm: sign in failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return false
	}
	return true
}

// ServeRegister handles POST /auth/register: self-service account creation.
func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	var req registration
	if err := httpapi.Decode(r, &req); err != nil {
		httpapi.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if normalize.Email(req.Email) == "" {
		httpapi.Error(w, http.StatusBadRequest, "An email is required.")
		return
	}

	// Friendly pre-check; the unique index still catches the race.
	if _, err := h.Users.GetByEmail(r.Context(), req.Email); err == nil {
		httpapi.Error(w, http.StatusBadRequest, "A user with that email already exists")
		return
	} else if err != userstore.ErrNotFound {
		h.Log.Error("register: user lookup failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	created, err := h.Users.Create(r.Context(), models.User{
		Email:    req.Email,
		FullName: req.FullName,
		Role:     models.RoleStandard,
	})
	if err == userstore.ErrDuplicateEmail {
		httpapi.Error(w, http.StatusBadRequest, "A user with that email already exists")
		return
	}
	if err != nil {
		h.Log.Error("register: create failed", zap.Error(err))
		httpapi.Error(w, http.StatusInternalServerError, "Something went wrong.")
		return
	}

	httpapi.JSON(w, http.StatusCreated, created)
}
