// internal/app/features/matching/list.go
package matching

import (
	"context"
	"errors"
	"net/http"

	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/inputval"
	"github.com/dalemusser/volunteerhub/internal/app/system/limits"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
)

// ServeMatched returns every assignment with event and volunteer names.
func (h *Handler) ServeMatched(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := reportqueries.Matched(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list matched failed", err, "Failed to load assignments.")
		return
	}
	out := make([]matchedItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchedItem{
			EventID:       row.EventID.Hex(),
			EventName:     row.EventName,
			VolunteerID:   row.VolunteerID.Hex(),
			VolunteerName: row.VolunteerName,
		})
	}
	formutil.WriteJSON(w, http.StatusOK, out)
}

// HandleMatch returns the candidate volunteers for {eventId}, best match first.
func (h *Handler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var form matchForm
	if err := formutil.DecodeJSON(w, r, &form, limits.MaxJSONBody); err != nil {
		apierr.BadRequest(w, err.Error())
		return
	}
	if res := inputval.Validate(form); res.HasErrors() {
		apierr.Validation(w, res.Fields())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
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

	cands, err := h.Dir.Candidates(ctx, ev)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "match volunteers failed", err, "Failed to match volunteers.")
		return
	}
	out := make([]candidateItem, 0, len(cands))
	for _, c := range cands {
		out = append(out, candidateItem{
			ID:            c.ID.Hex(),
			Name:          c.Name,
			Email:         c.Email,
			FullName:      c.FullName,
			Skills:        nonNil(c.Skills),
			MatchedSkills: nonNil(c.MatchedSkills),
		})
	}
	formutil.WriteJSON(w, http.StatusOK, out)
}

// ServeVolunteerDetails lists every volunteer with their assigned events.
func (h *Handler) ServeVolunteerDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := reportqueries.VolunteerReport(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "volunteer report failed", err, "Failed to load the volunteer report.")
		return
	}
	out := make([]volunteerDetail, 0, len(rows))
	for _, row := range rows {
		evs := make([]eventItem, 0, len(row.Events))
		for _, e := range row.Events {
			evs = append(evs, eventItem{ID: e.ID.Hex(), Name: e.Name, Date: e.Date, Location: e.Location})
		}
		out = append(out, volunteerDetail{
			ID:     row.Volunteer.ID.Hex(),
			Name:   row.Volunteer.Name,
			Email:  row.Volunteer.Email,
			Events: evs,
		})
	}
	formutil.WriteJSON(w, http.StatusOK, out)
}
