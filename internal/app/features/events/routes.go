// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /events. Reading is open to any signed-in user;
// creating and the report are admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/all", h.ServeList)

	r.Group(func(rr chi.Router) {
		rr.Use(sm.RequireRole(models.RoleAdmin))
		rr.Post("/create", h.HandleCreate)
		rr.Get("/all-with-volunteer-count", h.ServeReport)
	})

	r.Get("/{id}", h.ServeView)
	return r
}
