// internal/app/features/matching/routes.go
package matching

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /matching. Every endpoint is admin only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/matched", h.ServeMatched)
	r.Post("/match", h.HandleMatch)
	r.Post("/assign", h.HandleAssign)
	r.Post("/reconcile", h.HandleReconcile)
	r.Get("/volunteer-details", h.ServeVolunteerDetails)
	return r
}
