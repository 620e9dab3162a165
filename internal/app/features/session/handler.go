// internal/app/features/session/handler.go
package session

import (
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toResponse(u *auth.SessionUser) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// ServeCurrent handles GET /session: who is signed in.
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}
	formutil.WriteJSON(w, http.StatusOK, toResponse(u))
}

// HandleCreate handles POST /session. A caller authenticated by bearer
// token receives a session cookie for the same user, so browser clients
// can drop the header.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}
	if err := h.SessionMgr.SaveCookie(w, r, *u); err != nil {
		h.Log.Error("save session cookie", zap.Error(err))
		apierr.Internal(w, "Failed to start session.")
		return
	}
	h.Log.Info("session started", zap.String("user_id", u.ID))
	formutil.WriteJSON(w, http.StatusCreated, toResponse(u))
}

// HandleDelete handles DELETE /session by expiring the cookie. Bearer
// tokens stay valid until they expire.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.ClearCookie(w, r); err != nil {
		h.Log.Error("clear session cookie", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
