// internal/app/features/tags/routes.go
package tags

import (
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Use(am.RequireSignedIn)
	r.Use(am.RequireActive)

	r.Get("/", h.ServeList)
	r.Get("/{tag}/sheets", h.ServeSheets)

	return r
}
