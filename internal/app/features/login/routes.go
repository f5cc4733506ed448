// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/request", h.ServeRequest)
	r.Post("/request-magic", h.ServeRequestMagic)
	r.Post("/confirm", h.ServeConfirm)
	r.Post("/confirm-magic", h.ServeConfirmMagic)
	r.Post("/register", h.ServeRegister)

	return r
}
