// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"errors"
	"net/http"

	profilestore "github.com/dalemusser/volunteerhub/internal/app/store/profiles"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeProfile returns the signed-in user's profile, or 404 before the
// first save.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).Get(ctx, uid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		apierr.NotFound(w, "Profile not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "Failed to load profile.")
		return
	}
	formutil.WriteJSON(w, http.StatusOK, p)
}

// HandleUpdate validates and saves the signed-in user's profile.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}

	var form ProfileForm
	if err := formutil.DecodeJSON(w, r, &form, limits.MaxJSONBody); err != nil {
		apierr.BadRequest(w, err.Error())
		return
	}
	form.Normalize()
	if errs := form.Validate(); len(errs) > 0 {
		apierr.Validation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := profilestore.New(h.DB).Upsert(ctx, form.Profile(uid))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save profile failed", err, "Failed to save profile.")
		return
	}

	h.Audit.ProfileUpdated(ctx, r, uid.Hex())
	h.Log.Info("profile saved", zap.String("user_id", uid.Hex()))
	formutil.WriteJSON(w, http.StatusOK, p)
}
