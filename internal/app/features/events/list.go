// internal/app/features/events/list.go
package events

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// ServeList returns every event, earliest date first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	evs, err := eventstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events failed", err, "Failed to load events.")
		return
	}
	if evs == nil {
		evs = []models.Event{}
	}
	formutil.WriteJSON(w, http.StatusOK, evs)
}

// ServeView returns one event.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := directory.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		apierr.BadRequest(w, "Invalid event id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := eventstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, eventstore.ErrNotFound) {
		apierr.NotFound(w, "Event not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get event failed", err, "Failed to load event.")
		return
	}
	formutil.WriteJSON(w, http.StatusOK, ev)
}

// ServeReport lists events with their assigned volunteers.
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := reportqueries.EventReport(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "event report failed", err, "Failed to load the event report.")
		return
	}

	out := make([]reportItem, 0, len(rows))
	for _, row := range rows {
		vols := make([]volunteerItem, 0, len(row.Volunteers))
		for _, v := range row.Volunteers {
			item := volunteerItem{Name: v.Name, Email: v.Email}
			if !v.ID.IsZero() {
				item.ID = v.ID.Hex()
			}
			vols = append(vols, item)
		}
		ev := row.Event
		if ev.RequiredSkills == nil {
			ev.RequiredSkills = []string{}
		}
		out = append(out, reportItem{Event: ev, VolunteerCount: row.VolunteerCount, Volunteers: vols})
	}
	formutil.WriteJSON(w, http.StatusOK, out)
}
