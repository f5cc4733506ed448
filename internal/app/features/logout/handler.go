// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/dalemusser/scorehub/internal/app/system/httpapi"
	"go.uber.org/zap"
)

type Handler struct {
	Log  *zap.Logger
	Auth *auth.Manager
}

func NewHandler(authMgr *auth.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:  logger,
		Auth: authMgr,
	}
}

// ServeSignOut handles GET /auth/sign-out. The token is stateless, so
// signing out just clears the cookie; the token itself lapses at expiry.
func (h *Handler) ServeSignOut(w http.ResponseWriter, r *http.Request) {
	h.Auth.SignOut(w)
	httpapi.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
