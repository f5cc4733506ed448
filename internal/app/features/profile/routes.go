// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/scorehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, am *auth.Manager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(am.RequireSignedIn)
		pr.Use(am.RequireActive)
		pr.Get("/", h.ServeMe)
		pr.Put("/", h.ServeUpdateMe)
	})

	return r
}
