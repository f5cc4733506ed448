// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Gates short-circuit in order: signed in, active, admin.
		pr.Use(am.RequireSignedIn)
		pr.Use(am.RequireActive)
		pr.Use(am.RequireAdmin)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.ServeCreate)
		pr.Get("/{email}", h.ServeGet)
		pr.Put("/{email}", h.ServeUpdate)
		pr.Delete("/{email}", h.ServeDelete)
	})

	return r
}
