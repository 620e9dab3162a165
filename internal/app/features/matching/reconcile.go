// internal/app/features/matching/reconcile.go
package matching

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/inputval"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
)

// HandleReconcile moves an event's assignments to the selected set.
//
// The response is 200 with the run summary for unchanged and committed
// runs. Every other outcome is an error envelope whose kind is the
// reconcile kind (duplicate_conflict lists names in "names").
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	var form reconcileForm
	if err := formutil.DecodeJSON(w, r, &form, limits.MaxJSONBody); err != nil {
		apierr.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(form); res.HasErrors() {
		apierr.Validation(w, res.Fields())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Reconcile())
	defer cancel()

	if _, err := h.Dir.Event(ctx, form.EventID); err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			apierr.NotFound(w, "Event not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Failed to load event.")
		return
	}

	req, err := h.Reconciler.Prepare(ctx, form.EventID)
	if err != nil {
		h.ErrLog.LogReconcile(w, r, "prepare reconciliation failed", err)
		return
	}
	if form.Current != nil {
		req.Current = form.Current
	}
	req.Selected = form.Selected

	res, err := h.Reconciler.Reconcile(ctx, req)
	h.audit(ctx, r, form.EventID, res, err)
	if err != nil {
		h.ErrLog.LogReconcile(w, r, "reconciliation did not commit", err)
		return
	}

	formutil.WriteJSON(w, http.StatusOK, reconcileResponse{
		RunID:      res.RunID,
		EventID:    form.EventID,
		State:      string(res.State),
		ToAssign:   nonNil(res.Plan.ToAssign),
		ToUnassign: nonNil(res.Plan.ToUnassign),
	})
}

// audit records the run and the pairs each committed batch changed.
func (h *Handler) audit(ctx context.Context, r *http.Request, eventID string, res reconcile.Result, err error) {
	actorID := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorID = u.ID
	}

	if res.Assign.Succeeded() && len(res.Assign.Changed) > 0 {
		h.Audit.VolunteersAssigned(ctx, r, actorID, eventID, res.Assign.Changed)
	}
	if res.Unassign.Succeeded() && len(res.Unassign.Changed) > 0 {
		h.Audit.VolunteersUnassigned(ctx, r, actorID, eventID, res.Unassign.Changed)
	}

	switch res.State {
	case reconcile.StateCommitted:
		h.Audit.ReconcileCommitted(ctx, r, actorID, eventID, res.RunID, len(res.Assign.Changed), len(res.Unassign.Changed))
	case reconcile.StateAborted:
		kind, _ := reconcile.KindOf(err)
		h.Audit.ReconcileRejected(ctx, r, actorID, eventID, res.RunID, string(kind), errString(err))
	case reconcile.StatePartial, reconcile.StateFailed:
		kind, _ := reconcile.KindOf(err)
		h.Audit.ReconcileFailed(ctx, r, actorID, eventID, res.RunID, string(kind), errString(err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
