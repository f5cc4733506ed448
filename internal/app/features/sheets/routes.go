// internal/app/features/sheets/routes.go
package sheets

import (
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the sheet endpoints. Every route requires an active,
// signed-in user; rows are always scoped to that user.
func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Use(am.RequireSignedIn)
	r.Use(am.RequireActive)

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)

	r.Route("/{sheetID}", func(r chi.Router) {
		r.Get("/", h.ServeGet)
		r.Put("/", h.ServeUpdate)
		r.Delete("/", h.ServeDelete)
		r.Get("/versions", h.ServeVersions)
		r.Post("/restore", h.ServeRestore)
		r.Get("/file", h.ServeFile)
		r.Get("/related", h.ServeRelated)
	})

	return r
}
