// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/app/system/apierr"
	"github.com/dalemusser/volunteerhub/internal/app/system/formutil"
	"github.com/dalemusser/volunteerhub/internal/app/system/paging"
	"github.com/dalemusser/volunteerhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeList handles GET /audit. Filters: category, eventType, eventId,
// actorId, start and end (YYYY-MM-DD, end inclusive), limit and offset.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, fields := parseFilter(r)
	if len(fields) > 0 {
		apierr.Validation(w, fields)
		return
	}
	limit := paging.ParseLimit(r, paging.DefaultLimit, maxPage)
	offset := paging.ParseOffset(r)
	filter.Limit = int64(limit)
	filter.Offset = int64(offset)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "Failed to load audit log.")
		return
	}
	total, err := h.Store.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "Failed to load audit log.")
		return
	}

	actors, evNames := h.names(ctx, events)
	items := make([]entry, 0, len(events))
	for _, e := range events {
		it := entry{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.ActorID != nil {
			it.ActorID = e.ActorID.Hex()
			it.ActorName = actors[*e.ActorID]
		}
		if e.EventID != nil {
			it.EventID = e.EventID.Hex()
			it.EventName = evNames[*e.EventID]
		}
		items = append(items, it)
	}

	formutil.WriteJSON(w, http.StatusOK, listResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}

func parseFilter(r *http.Request) (audit.QueryFilter, map[string]string) {
	q := r.URL.Query()
	fields := map[string]string{}
	var f audit.QueryFilter

	f.Category = strings.TrimSpace(q.Get("category"))
	if f.Category != "" && !categories[f.Category] {
		fields["category"] = "Unknown audit category."
	}
	f.EventType = strings.TrimSpace(q.Get("eventType"))

	for _, p := range []struct {
		key string
		dst **primitive.ObjectID
	}{{"eventId", &f.EventID}, {"actorId", &f.ActorID}} {
		s := strings.TrimSpace(q.Get(p.key))
		if s == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			fields[p.key] = "Must be a valid id."
			continue
		}
		*p.dst = &oid
	}

	if s := strings.TrimSpace(q.Get("start")); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			fields["start"] = "Use YYYY-MM-DD."
		} else {
			f.StartTime = &t
		}
	}
	if s := strings.TrimSpace(q.Get("end")); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			fields["end"] = "Use YYYY-MM-DD."
		} else {
			eod := t.Add(24*time.Hour - time.Nanosecond)
			f.EndTime = &eod
		}
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Before(*f.StartTime) {
		fields["end"] = "End date is before start date."
	}
	return f, fields
}

// names resolves actor and event display names. Lookup failures only cost
// the names, so they are logged and the page is still served.
func (h *Handler) names(ctx context.Context, events []audit.Event) (map[primitive.ObjectID]string, map[primitive.ObjectID]string) {
	actorSet := map[primitive.ObjectID]struct{}{}
	eventSet := map[primitive.ObjectID]struct{}{}
	for _, e := range events {
		if e.ActorID != nil {
			actorSet[*e.ActorID] = struct{}{}
		}
		if e.EventID != nil {
			eventSet[*e.EventID] = struct{}{}
		}
	}

	actors := make(map[primitive.ObjectID]string, len(actorSet))
	if len(actorSet) > 0 {
		users, err := userstore.New(h.DB).ListByIDs(ctx, keys(actorSet))
		if err != nil {
			h.Log.Warn("failed to resolve audit actor names", zap.Error(err))
		}
		for _, u := range users {
			actors[u.ID] = u.Name
		}
	}

	evNames := make(map[primitive.ObjectID]string, len(eventSet))
	if len(eventSet) > 0 {
		evs, err := eventstore.New(h.DB).ListByIDs(ctx, keys(eventSet))
		if err != nil {
			h.Log.Warn("failed to resolve audit event names", zap.Error(err))
		}
		for id, ev := range evs {
			evNames[id] = ev.DisplayName()
		}
	}
	return actors, evNames
}

func keys(m map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	return out
}
