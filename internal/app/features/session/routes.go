// internal/app/features/session/routes.go
package session

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeCurrent)
		pr.Post("/", h.HandleCreate)
	})
	r.Delete("/", h.HandleDelete)

	return r
}
