// internal/app/system/auth/auth.go

// Package auth is the access guard: it turns the session cookie back into a
// user and gates requests on "signed in", "active", and "admin". The cookie
// carries a stateless signed token; the user record is resolved fresh from
// the directory on every request, so role changes and disabled accounts
// take effect immediately.
package auth

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/scorehub/internal/app/store/users"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"github.com/dalemusser/scorehub/internal/app/system/token"
	"github.com/dalemusser/scorehub/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultCookieName is used when the manager is constructed with an empty name.
const DefaultCookieName = "scorehub-token"

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// Manager validates session cookies and enforces the auth gates.
type Manager struct {
	tokens     *token.Manager
	users      *userstore.Store
	cookieName string
	secure     bool
	log        *zap.Logger
}

// NewManager builds the access guard. secure controls the cookie's Secure
// flag; it is off only in debug deployments.
func NewManager(tokens *token.Manager, users *userstore.Store, cookieName string, secure bool, logger *zap.Logger) *Manager {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Manager{
		tokens:     tokens,
		users:      users,
		cookieName: cookieName,
		secure:     secure,
		log:        logger,
	}
}

// CurrentUser returns the resolved user and a found flag.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// WithUser returns a copy of r carrying u as the resolved session user.
// Handler tests use it to bypass the cookie round trip.
func WithUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// SignIn mints a session token for email and sets it as an HTTP-only cookie.
func (m *Manager) SignIn(w http.ResponseWriter, email string) error {
	tok, err := m.tokens.Create(email)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(m.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SignOut clears the session cookie.
func (m *Manager) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoadSessionUser injects the user into context when the request carries a
// valid token whose subject still resolves to a user. Invalid, expired, or
// orphaned tokens leave the request anonymous; the gates downstream decide
// whether that matters.
func (m *Manager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(m.cookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		email, err := m.tokens.Parse(c.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.users.GetByEmail(r.Context(), email)
		if err != nil {
			if err != userstore.ErrNotFound {
				m.log.Error("session user lookup failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, WithUser(r, u))
	})
}

// RequireSignedIn rejects anonymous requests with 401.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpapi.Error(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActive rejects disabled accounts with the client-facing "Inactive
// user" condition. Chain it after RequireSignedIn.
func (m *Manager) RequireActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			httpapi.Error(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if u.Disabled {
			httpapi.Error(w, http.StatusBadRequest, "Inactive user")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin users with 403. Chain it after
// RequireActive; the gates short-circuit at the first failure.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			httpapi.Error(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if u.Role != models.RoleAdmin {
			httpapi.Error(w, http.StatusForbidden, "You are not authorized to perform this action.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
