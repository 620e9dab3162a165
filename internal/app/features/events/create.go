// internal/app/features/events/create.go
package events

import (
	"context"
	"net/http"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreate stores a new event and sends a "new event" notification to
// every active volunteer whose skills match. Notification failures are
// logged; the event is still created.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var form EventForm
	if err := formutil.DecodeJSON(w, r, &form, limits.MaxJSONBody); err != nil {
		apierr.BadRequest(w, err.Error())
		return
	}
	form.Normalize()
	if errs := form.Validate(); len(errs) > 0 {
		apierr.Validation(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ev, err := eventstore.New(h.DB).Create(ctx, form.Event())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create event failed", err, "Failed to create event.")
		return
	}

	actorID := ""
	if u, ok := auth.CurrentUser(r); ok {
		actorID = u.ID
	}
	h.Audit.EventCreated(ctx, r, actorID, ev.ID.Hex(), ev.Name)

	dir := directory.New(h.DB, h.Log)
	if h.Metrics != nil {
		dir.SetNotificationCounter(h.Metrics)
	}
	sent, err := dir.NotifyEvent(ctx, ev, models.NotifNewEvent)
	if err != nil {
		h.Log.Warn("new event notifications failed",
			zap.String("event_id", ev.ID.Hex()),
			zap.Int("sent", sent),
			zap.Error(err))
	}
	if sent > 0 {
		h.Audit.NotificationsSent(ctx, r, actorID, ev.ID.Hex(), models.NotifNewEvent, sent)
	}

	h.Log.Info("event created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("name", ev.Name),
		zap.Int("notified", sent))
	formutil.WriteJSON(w, http.StatusCreated, createResponse{Data: ev, Notifications: sent})
}
