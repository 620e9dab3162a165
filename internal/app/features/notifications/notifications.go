// internal/app/features/notifications/notifications.go
package notifications

import (
	"context"
	"errors"
	"net/http"
	"strings"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	notificationstore "github.com/dalemusser/volunteerhub/internal/app/store/notifications"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/authz"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/inputval"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/paging"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate sends a notification about an event. "new event" goes to
// matching volunteers; the other types go to the event's assigned volunteers.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var form createForm
	if err := formutil.DecodeJSON(w, r, &form, limits.MaxJSONBody); err != nil {
		apierr.BadRequest(w, err.Error())
		return
	}
	form.NotifType = strings.TrimSpace(form.NotifType)
	res := inputval.Validate(form)
	if !res.Has("notifType") && !models.IsNotificationType(form.NotifType) {
		res.Add("notifType", "Notification type must be one of: "+strings.Join(models.NotificationTypes, ", ")+".")
	}
	if res.HasErrors() {
		apierr.Validation(w, res.Fields())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	ev, err := h.Dir.Event(ctx, form.EventID)
	if errors.Is(err, eventstore.ErrNotFound) {
		apierr.NotFound(w, "Event not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, "Failed to load event.")
		return
	}

	n, err := h.Dir.NotifyEvent(ctx, ev, form.NotifType)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create notifications failed", err, "Failed to create notifications.")
		return
	}

	_, _, actor, _ := authz.UserCtx(r)
	h.Audit.NotificationsSent(ctx, r, hexOrEmpty(actor), ev.ID.Hex(), form.NotifType, n)
	h.Log.Info("notifications created",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("type", form.NotifType),
		zap.Int("count", n))

	formutil.WriteJSON(w, http.StatusCreated, createResponse{EventID: ev.ID.Hex(), NotifType: form.NotifType, Count: n})
}

// ServeList returns the signed-in user's undismissed notifications, newest
// first, each joined with its event. "limit" caps the result.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}
	limit := paging.ParseLimit(r, paging.DefaultLimit, limits.MaxNotifications)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	notifs, err := h.Store.ListForUser(ctx, uid, int64(limit))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list notifications failed", err, "Failed to load notifications.")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(notifs))
	for _, n := range notifs {
		ids = append(ids, n.EventID)
	}
	evs, err := eventstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load notification events failed", err, "Failed to load notifications.")
		return
	}

	out := make([]item, 0, len(notifs))
	for _, n := range notifs {
		it := item{
			ID:        n.ID.Hex(),
			Type:      n.Type,
			Title:     n.Title,
			CreatedAt: n.CreatedAt,
			EventID:   n.EventID.Hex(),
			EventName: models.UnknownEvent,
		}
		if ev, ok := evs[n.EventID]; ok {
			it.EventName = ev.DisplayName()
			it.EventDate = ev.Date
			it.EventLocation = ev.Location
			it.EventDescription = ev.Description
		}
		out = append(out, it)
	}
	formutil.WriteJSON(w, http.StatusOK, out)
}

// HandleDismiss hides one of the signed-in user's notifications.
func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		apierr.Unauthorized(w)
		return
	}
	id, err := directory.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		apierr.BadRequest(w, "Invalid notification id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Store.Dismiss(ctx, uid, id); err != nil {
		if errors.Is(err, notificationstore.ErrNotFound) {
			apierr.NotFound(w, "Notification not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "dismiss notification failed", err, "Failed to dismiss notification.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
