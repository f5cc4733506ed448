// internal/app/features/instruments/routes.go
package instruments

import (
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Use(am.RequireSignedIn)
	r.Use(am.RequireActive)

	r.Get("/", h.ServeList)
	r.Get("/{instrument}/sheets", h.ServeSheets)

	return r
}
