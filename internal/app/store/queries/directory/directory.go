// Package directory implements reconcile.Directory over the Mongo stores and
// provides the skill-matching query used by the matching endpoints.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	assignmentstore "github.com/dalemusser/volunteerhub/internal/app/store/assignments"
	eventstore "github.com/dalemusser/volunteerhub/internal/app/store/events"
	notificationstore "github.com/dalemusser/volunteerhub/internal/app/store/notifications"
	profilestore "github.com/dalemusser/volunteerhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrBadID is wrapped by every method that receives a malformed hex id.
var ErrBadID = errors.New("invalid id")

// Candidate is an active volunteer whose skills intersect an event's
// required skills.
type Candidate struct {
	ID            primitive.ObjectID
	Name          string
	Email         string
	FullName      string
	Skills        []string
	MatchedSkills []string
}

// Directory reads and writes assignments through the stores.
type Directory struct {
	events      *eventstore.Store
	users       *userstore.Store
	profiles    *profilestore.Store
	assignments *assignmentstore.Store
	notifs      *notificationstore.Store
	log         *zap.Logger
	counter     NotificationCounter
}

// NotificationCounter is told how many notifications of each type were
// written. *metrics.Collector satisfies it.
type NotificationCounter interface {
	NotificationsCreated(typ string, n int)
}

// SetNotificationCounter attaches c. Passing nil detaches it.
func (d *Directory) SetNotificationCounter(c NotificationCounter) {
	d.counter = c
}

var (
	_ reconcile.Directory      = (*Directory)(nil)
	_ reconcile.ChangeReporter = (*Directory)(nil)
)

// New builds a Directory over db. A nil logger is replaced with a no-op logger.
func New(db *mongo.Database, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		events:      eventstore.New(db),
		users:       userstore.New(db),
		profiles:    profilestore.New(db),
		assignments: assignmentstore.New(db),
		notifs:      notificationstore.New(db),
		log:         logger,
	}
}

// ParseID converts a hex id, wrapping ErrBadID on failure.
func ParseID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrBadID, hex)
	}
	return oid, nil
}

// ParseIDs converts every id in hexes, failing on the first malformed one.
func ParseIDs(hexes []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		oid, err := ParseID(h)
		if err != nil {
			return nil, err
		}
		out = append(out, oid)
	}
	return out, nil
}

// ListEvents returns every event as the reconciler sees it.
func (d *Directory) ListEvents(ctx context.Context) ([]reconcile.Event, error) {
	evs, err := d.events.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Event, 0, len(evs))
	for _, e := range evs {
		out = append(out, reconcile.Event{ID: e.ID.Hex(), Name: e.DisplayName()})
	}
	return out, nil
}

// ListCandidateVolunteers returns the skill-matched candidates for eventID.
func (d *Directory) ListCandidateVolunteers(ctx context.Context, eventID string) ([]reconcile.Volunteer, error) {
	oid, err := ParseID(eventID)
	if err != nil {
		return nil, err
	}
	ev, err := d.events.GetByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	cands, err := d.Candidates(ctx, ev)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Volunteer, 0, len(cands))
	for _, c := range cands {
		out = append(out, reconcile.Volunteer{
			ID:       c.ID.Hex(),
			Name:     c.Name,
			FullName: c.FullName,
			Skills:   c.Skills,
		})
	}
	return out, nil
}

// ListAssignments returns the assignments of eventID.
func (d *Directory) ListAssignments(ctx context.Context, eventID string) ([]reconcile.Assignment, error) {
	oid, err := ParseID(eventID)
	if err != nil {
		return nil, err
	}
	rows, err := d.assignments.ListByEvent(ctx, oid)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Assignment, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAssignment(a))
	}
	return out, nil
}

// ListAllAssignments returns every assignment in the store.
func (d *Directory) ListAllAssignments(ctx context.Context) ([]reconcile.Assignment, error) {
	rows, err := d.assignments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]reconcile.Assignment, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAssignment(a))
	}
	return out, nil
}

func toAssignment(a models.Assignment) reconcile.Assignment {
	var ra reconcile.Assignment
	if !a.EventID.IsZero() {
		ra.EventID = a.EventID.Hex()
	}
	if !a.VolunteerID.IsZero() {
		ra.VolunteerID = a.VolunteerID.Hex()
	}
	return ra
}

// BatchAssign assigns volunteerIDs to eventID. See Assign.
func (d *Directory) BatchAssign(ctx context.Context, eventID string, volunteerIDs []string) error {
	_, err := d.Assign(ctx, eventID, volunteerIDs)
	return err
}

// BatchUnassign removes volunteerIDs from eventID. See Unassign.
func (d *Directory) BatchUnassign(ctx context.Context, eventID string, volunteerIDs []string) error {
	_, err := d.Unassign(ctx, eventID, volunteerIDs)
	return err
}

// Assign assigns volunteerIDs to eventID and returns the ids that were not
// already assigned. Only those volunteers get an "assigned" notification,
// so re-sending a batch has no further effect.
func (d *Directory) Assign(ctx context.Context, eventID string, volunteerIDs []string) ([]string, error) {
	ev, vids, err := d.parseBatch(eventID, volunteerIDs)
	if err != nil {
		return nil, err
	}
	res, err := d.assignments.AddBatch(ctx, ev, vids)
	if err != nil {
		return nil, err
	}
	d.log.Debug("assign batch applied",
		zap.String("event_id", eventID),
		zap.Int("added", len(res.Changed)),
		zap.Int("already_assigned", res.Unchanged))
	d.notify(ctx, ev, res.Changed, models.NotifAssigned)
	return hexes(res.Changed), nil
}

// Unassign removes volunteerIDs from eventID and returns the ids that were
// actually assigned. Absent pairs are not an error and are not notified.
func (d *Directory) Unassign(ctx context.Context, eventID string, volunteerIDs []string) ([]string, error) {
	ev, vids, err := d.parseBatch(eventID, volunteerIDs)
	if err != nil {
		return nil, err
	}
	res, err := d.assignments.RemoveBatch(ctx, ev, vids)
	if err != nil {
		return nil, err
	}
	d.log.Debug("unassign batch applied",
		zap.String("event_id", eventID),
		zap.Int("removed", len(res.Changed)),
		zap.Int("not_assigned", res.Unchanged))
	d.notify(ctx, ev, res.Changed, models.NotifUnassigned)
	return hexes(res.Changed), nil
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func (d *Directory) parseBatch(eventID string, volunteerIDs []string) (primitive.ObjectID, []primitive.ObjectID, error) {
	ev, err := ParseID(eventID)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	vids, err := ParseIDs(volunteerIDs)
	if err != nil {
		return primitive.NilObjectID, nil, err
	}
	return ev, vids, nil
}

// notify is best-effort: failures are logged, never returned.
func (d *Directory) notify(ctx context.Context, eventID primitive.ObjectID, userIDs []primitive.ObjectID, typ string) {
	if len(userIDs) == 0 {
		return
	}
	title := models.UnknownEvent
	if ev, err := d.events.GetByID(ctx, eventID); err == nil {
		title = ev.DisplayName()
	}
	n, err := d.notifs.CreateMany(ctx, eventID, userIDs, typ, title)
	d.count(typ, n)
	if err != nil {
		d.log.Warn("failed to create notifications",
			zap.String("event_id", eventID.Hex()),
			zap.String("type", typ),
			zap.Error(err))
	}
}

func (d *Directory) count(typ string, n int) {
	if d.counter != nil && n > 0 {
		d.counter.NotificationsCreated(typ, n)
	}
}

// Recipients returns the users a notification of type typ about ev goes to.
// "new event" targets matching candidates; every other type targets the
// volunteers currently assigned to ev.
func (d *Directory) Recipients(ctx context.Context, ev models.Event, typ string) ([]primitive.ObjectID, error) {
	if typ == models.NotifNewEvent {
		cands, err := d.Candidates(ctx, ev)
		if err != nil {
			return nil, err
		}
		ids := make([]primitive.ObjectID, len(cands))
		for i, c := range cands {
			ids[i] = c.ID
		}
		return ids, nil
	}
	rows, err := d.assignments.ListByEvent(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.VolunteerID)
	}
	return ids, nil
}

// NotifyEvent writes one notification of type typ about ev to every
// recipient and returns how many were written. When the store write fails
// part way the partial count is returned with the error.
func (d *Directory) NotifyEvent(ctx context.Context, ev models.Event, typ string) (int, error) {
	if !models.IsNotificationType(typ) {
		return 0, fmt.Errorf("unknown notification type %q", typ)
	}
	ids, err := d.Recipients(ctx, ev, typ)
	if err != nil {
		return 0, fmt.Errorf("resolve recipients: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := d.notifs.CreateMany(ctx, ev.ID, ids, typ, ev.DisplayName())
	d.count(typ, n)
	if err != nil {
		return n, fmt.Errorf("create notifications: %w", err)
	}
	return n, nil
}

// Candidates returns the active volunteers whose profile skills intersect
// ev.RequiredSkills, ordered by number of matched skills (desc), then full
// name, then username.
func (d *Directory) Candidates(ctx context.Context, ev models.Event) ([]Candidate, error) {
	if len(ev.RequiredSkills) == 0 {
		return []Candidate{}, nil
	}
	profiles, err := d.profiles.ListBySkills(ctx, ev.RequiredSkills)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return []Candidate{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := d.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		if u.Role == models.RoleVolunteer && u.Status == models.StatusActive {
			byID[u.ID] = u
		}
	}

	out := make([]Candidate, 0, len(profiles))
	for _, p := range profiles {
		u, ok := byID[p.UserID]
		if !ok {
			continue
		}
		matched := models.MatchSkills(p.Skills, ev.RequiredSkills)
		if len(matched) == 0 {
			continue
		}
		skills := p.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, Candidate{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			FullName:      p.FullName,
			Skills:        skills,
			MatchedSkills: matched,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if len(a.MatchedSkills) != len(b.MatchedSkills) {
			return len(a.MatchedSkills) > len(b.MatchedSkills)
		}
		if fa, fb := text.Fold(a.FullName), text.Fold(b.FullName); fa != fb {
			return fa < fb
		}
		return text.Fold(a.Name) < text.Fold(b.Name)
	})
	return out, nil
}

// Event loads one event by hex id.
func (d *Directory) Event(ctx context.Context, eventID string) (models.Event, error) {
	oid, err := ParseID(eventID)
	if err != nil {
		return models.Event{}, err
	}
	return d.events.GetByID(ctx, oid)
}
