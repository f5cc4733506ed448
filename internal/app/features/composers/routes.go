// internal/app/features/composers/routes.go
package composers

import (
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Use(am.RequireSignedIn)
	r.Use(am.RequireActive)

	r.Get("/", h.ServeList)

	return r
}
