package directory_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/directory"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	food  = "Food Preparation & Serving"
	clean = "Cleaning & Sanitation"
	aid   = "First Aid & CPR"
)

func TestDirectory_Candidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food, clean)
	one := fixtures.CreateVolunteer(ctx, "zed", "Zed Able", food)
	two := fixtures.CreateVolunteer(ctx, "amy", "Amy Zeller", clean, food)
	also := fixtures.CreateVolunteer(ctx, "bob", "Bob Baker", clean)
	fixtures.CreateVolunteer(ctx, "nomatch", "No Match", aid)
	fixtures.CreateDisabledVolunteer(ctx, "gone", food, clean)
	fixtures.CreateAdmin(ctx, "root", "root@example.com")

	got, err := dir.Candidates(ctx, ev)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}

	wantOrder := []primitive.ObjectID{two.ID, also.ID, one.ID}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d candidates, want %d: %+v", len(got), len(wantOrder), got)
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, got[i].Name, id.Hex())
		}
	}
	if len(got[0].MatchedSkills) != 2 {
		t.Errorf("matched skills for amy: got %v", got[0].MatchedSkills)
	}
	if got[1].FullName != "Bob Baker" || got[1].Email != "bob@example.com" {
		t.Errorf("candidate fields: got %+v", got[1])
	}
}

func TestDirectory_Candidates_NoRequiredSkills(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Open house")
	fixtures.CreateVolunteer(ctx, "amy", "Amy", food)

	got, err := dir.Candidates(ctx, ev)
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestDirectory_ListCandidateVolunteers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food)
	vol := fixtures.CreateVolunteer(ctx, "amy", "Amy Adams", food)

	got, err := dir.ListCandidateVolunteers(ctx, ev.ID.Hex())
	if err != nil {
		t.Fatalf("ListCandidateVolunteers failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != vol.ID.Hex() || got[0].Name != "amy" || got[0].FullName != "Amy Adams" {
		t.Errorf("got %+v", got)
	}

	if _, err := dir.ListCandidateVolunteers(ctx, "nope"); !errors.Is(err, directory.ErrBadID) {
		t.Errorf("bad id: got %v, want ErrBadID", err)
	}
}

func TestDirectory_BatchAssignAndUnassign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food)
	a := fixtures.CreateVolunteer(ctx, "amy", "Amy", food)
	b := fixtures.CreateVolunteer(ctx, "bob", "Bob", food)
	fixtures.CreateAssignment(ctx, ev.ID, a.ID)

	// Re-sending an existing pair must not create a second row.
	if err := dir.BatchAssign(ctx, ev.ID.Hex(), []string{a.ID.Hex(), b.ID.Hex()}); err != nil {
		t.Fatalf("BatchAssign failed: %v", err)
	}
	rows, err := dir.ListAssignments(ctx, ev.ID.Hex())
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	current := reconcile.CurrentFor(ev.ID.Hex(), rows)
	if len(current) != 2 {
		t.Fatalf("expected 2 assigned volunteers, got %v", current)
	}

	// Only bob was newly assigned.
	if n := countNotifs(t, db, ev.ID, b.ID, models.NotifAssigned); n != 1 {
		t.Errorf("assigned notifications for bob: got %d, want 1", n)
	}
	if n := countNotifs(t, db, ev.ID, a.ID, models.NotifAssigned); n != 0 {
		t.Errorf("assigned notifications for amy: got %d, want 0", n)
	}

	// Unassigning an absent pair is not an error.
	if err := dir.BatchUnassign(ctx, ev.ID.Hex(), []string{a.ID.Hex(), primitive.NewObjectID().Hex()}); err != nil {
		t.Fatalf("BatchUnassign failed: %v", err)
	}
	rows, err = dir.ListAssignments(ctx, ev.ID.Hex())
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	if got := reconcile.CurrentFor(ev.ID.Hex(), rows); len(got) != 1 || got[0] != b.ID.Hex() {
		t.Errorf("after unassign: got %v, want [%s]", got, b.ID.Hex())
	}
	if n := countNotifs(t, db, ev.ID, primitive.NilObjectID, models.NotifUnassigned); n != 1 {
		t.Errorf("unassigned notifications: got %d, want 1", n)
	}
}

func TestDirectory_ChangedIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food)
	a := fixtures.CreateVolunteer(ctx, "amy", "Amy", food)
	b := fixtures.CreateVolunteer(ctx, "bob", "Bob", food)
	fixtures.CreateAssignment(ctx, ev.ID, a.ID)

	tests := []struct {
		name    string
		run     func(eventID string, ids []string) ([]string, error)
		ids     []string
		want    []string
		typ     string
		wantNew int64
	}{
		{"assign new and existing", func(e string, ids []string) ([]string, error) { return dir.Assign(ctx, e, ids) },
			[]string{a.ID.Hex(), b.ID.Hex()}, []string{b.ID.Hex()}, models.NotifAssigned, 1},
		{"assign again", func(e string, ids []string) ([]string, error) { return dir.Assign(ctx, e, ids) },
			[]string{a.ID.Hex(), b.ID.Hex()}, nil, models.NotifAssigned, 0},
		{"unassign one", func(e string, ids []string) ([]string, error) { return dir.Unassign(ctx, e, ids) },
			[]string{a.ID.Hex()}, []string{a.ID.Hex()}, models.NotifUnassigned, 1},
		{"redundant unassign", func(e string, ids []string) ([]string, error) { return dir.Unassign(ctx, e, ids) },
			[]string{a.ID.Hex(), primitive.NewObjectID().Hex()}, nil, models.NotifUnassigned, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := countNotifs(t, db, ev.ID, primitive.NilObjectID, tt.typ)
			got, err := tt.run(ev.ID.Hex(), tt.ids)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("changed (-want +got):\n%s", diff)
			}
			after := countNotifs(t, db, ev.ID, primitive.NilObjectID, tt.typ)
			if after-before != tt.wantNew {
				t.Errorf("%s notifications: got %d new, want %d", tt.typ, after-before, tt.wantNew)
			}
		})
	}
}

// countNotifs counts notifications of typ for an event, narrowed to one user
// unless userID is nil.
func countNotifs(t *testing.T, db *mongo.Database, eventID, userID primitive.ObjectID, typ string) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	filter := bson.M{"event_id": eventID, "type": typ}
	if !userID.IsZero() {
		filter["user_id"] = userID
	}
	n, err := db.Collection("notifications").CountDocuments(ctx, filter)
	if err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return n
}

func TestDirectory_BatchAssign_BadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := dir.BatchAssign(ctx, primitive.NewObjectID().Hex(), []string{"not-hex"})
	if !errors.Is(err, directory.ErrBadID) {
		t.Errorf("got %v, want ErrBadID", err)
	}
}

// The store-backed directory drives a full reconciliation.
func TestDirectory_Reconcile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food)
	a := fixtures.CreateVolunteer(ctx, "amy", "Amy", food)
	b := fixtures.CreateVolunteer(ctx, "bob", "Bob", food)
	c := fixtures.CreateVolunteer(ctx, "cat", "Cat", food)
	fixtures.CreateAssignment(ctx, ev.ID, a.ID)
	fixtures.CreateAssignment(ctx, ev.ID, b.ID)

	rec := reconcile.New(dir, zap.NewNop())
	req, err := rec.Prepare(ctx, ev.ID.Hex())
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	req.Selected = []string{b.ID.Hex(), c.ID.Hex()}

	res, err := rec.Reconcile(ctx, req)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if res.State != reconcile.StateCommitted {
		t.Errorf("state: got %s, want committed", res.State)
	}

	rows, err := dir.ListAssignments(ctx, ev.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	got := reconcile.CurrentFor(ev.ID.Hex(), rows)
	want := reconcile.CurrentFor(ev.ID.Hex(), []reconcile.Assignment{
		{EventID: ev.ID.Hex(), VolunteerID: b.ID.Hex()},
		{EventID: ev.ID.Hex(), VolunteerID: c.ID.Hex()},
	})
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("assigned after reconcile: got %v, want %v", got, want)
	}

	// A stale Current that misses an existing row is a duplicate conflict.
	stale := reconcile.Request{EventID: ev.ID.Hex(), Current: []string{c.ID.Hex()}, Selected: []string{b.ID.Hex(), c.ID.Hex()}, Candidates: req.Candidates}
	_, err = rec.Reconcile(ctx, stale)
	if k, _ := reconcile.KindOf(err); k != reconcile.DuplicateConflict {
		t.Errorf("stale reconcile: got %v, want duplicate_conflict", err)
	}
}

func TestDirectory_ListEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food)
	got, err := dir.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != ev.ID.Hex() || got[0].Name != "Food drive" {
		t.Errorf("got %+v", got)
	}
}

type countingCounter map[string]int

func (c countingCounter) NotificationsCreated(typ string, n int) { c[typ] += n }

func TestDirectory_NotifyEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	dir := directory.New(db, zap.NewNop())
	counter := countingCounter{}
	dir.SetNotificationCounter(counter)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Food drive", food)
	a := fixtures.CreateVolunteer(ctx, "amy", "Amy", food)
	fixtures.CreateVolunteer(ctx, "bob", "Bob", food)
	fixtures.CreateVolunteer(ctx, "cal", "Cal", aid)
	fixtures.CreateAssignment(ctx, ev.ID, a.ID)

	n, err := dir.NotifyEvent(ctx, ev, models.NotifNewEvent)
	if err != nil {
		t.Fatalf("NotifyEvent(new event) failed: %v", err)
	}
	if n != 2 {
		t.Errorf("new event recipients: got %d, want 2", n)
	}

	n, err = dir.NotifyEvent(ctx, ev, models.NotifReminder)
	if err != nil {
		t.Fatalf("NotifyEvent(reminder) failed: %v", err)
	}
	if n != 1 {
		t.Errorf("reminder recipients: got %d, want 1", n)
	}

	if counter[models.NotifNewEvent] != 2 || counter[models.NotifReminder] != 1 {
		t.Errorf("counter: got %v", counter)
	}

	var got models.Notification
	if err := db.Collection("notifications").FindOne(ctx, bson.M{"type": models.NotifReminder}).Decode(&got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.UserID != a.ID || got.Title != "Food drive" {
		t.Errorf("reminder: got user %s title %q", got.UserID.Hex(), got.Title)
	}
}

func TestDirectory_NotifyEvent_UnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	dir := directory.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := dir.NotifyEvent(ctx, models.Event{ID: primitive.NewObjectID()}, "party"); err == nil {
		t.Error("expected an error for an unknown type")
	}
}
