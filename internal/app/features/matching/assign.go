// internal/app/features/matching/assign.go
package matching

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/inputval"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleAssign applies one batch: {eventId, volunteerIds, action}.
// Re-assigning an existing pair and unassigning an absent one both succeed
// and count as unchanged; only changed pairs are audited and notified.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var form assignForm
	if err := formutil.DecodeJSON(w, r, &form, limits.MaxJSONBody); err != nil {
		apierr.BadRequest(w, err.Error())
		return
	}
	form.normalize()
	if res := inputval.Validate(form); res.HasErrors() {
		apierr.Validation(w, res.Fields())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Dir.Event(ctx, form.EventID); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			apierr.NotFound(w, "Event not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Failed to load event.")
		return
	}

	apply := h.Dir.Assign
	if form.Action == actionUnassign {
		apply = h.Dir.Unassign
	}
	changed, err := apply(ctx, form.EventID, form.VolunteerIDs)
	h.Metrics.BatchApplied(form.Action, len(form.VolunteerIDs), err)
	if err != nil {
		h.ErrLog.LogServerError(w, r, form.Action+" batch failed", err, "Failed to save changes. Please try again.")
		return
	}

	actorID := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorID = u.ID
	}
	if len(changed) > 0 {
		if form.Action == actionAssign {
			h.Audit.VolunteersAssigned(ctx, r, actorID, form.EventID, changed)
		} else {
			h.Audit.VolunteersUnassigned(ctx, r, actorID, form.EventID, changed)
		}
	}

	h.Log.Info("batch applied",
		zap.String("event_id", form.EventID),
		zap.String("action", form.Action),
		zap.Int("count", len(form.VolunteerIDs)),
		zap.Int("changed", len(changed)))
	formutil.WriteJSON(w, http.StatusOK, assignResponse{
		EventID: form.EventID,
		Action:  form.Action,
		Count:   len(form.VolunteerIDs),
		Changed: len(changed),
	})
}
