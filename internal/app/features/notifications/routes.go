// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /notifs. Creating is admin only; listing and
// dismissing act on the signed-in user's own notifications.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/all", h.ServeList)
	r.Post("/{id}/dismiss", h.HandleDismiss)
	r.With(sm.RequireRole(models.RoleAdmin)).Post("/create", h.HandleCreate)
	return r
}
