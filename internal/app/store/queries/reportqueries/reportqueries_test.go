package reportqueries_test

import (
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/dalemusser/volunteerhub/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMatched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fixtures.CreateEvent(ctx, "Beach cleanup")
	amy := fixtures.CreateVolunteer(ctx, "amy", "Amy")
	fixtures.CreateAssignment(ctx, ev.ID, amy.ID)
	// One row whose volunteer was deleted and one whose event was deleted.
	fixtures.CreateAssignment(ctx, ev.ID, primitive.NewObjectID())
	fixtures.CreateAssignment(ctx, primitive.NewObjectID(), amy.ID)

	rows, err := reportqueries.Matched(ctx, db)
	if err != nil {
		t.Fatalf("Matched failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// "Beach cleanup" sorts before "Unknown event"; within it "amy" before "Unknown volunteer".
	want := []struct{ event, vol string }{
		{"Beach cleanup", "amy"},
		{"Beach cleanup", reconcile.UnknownVolunteer},
		{models.UnknownEvent, "amy"},
	}
	for i, w := range want {
		if rows[i].EventName != w.event || rows[i].VolunteerName != w.vol {
			t.Errorf("row %d: got (%q, %q), want (%q, %q)", i, rows[i].EventName, rows[i].VolunteerName, w.event, w.vol)
		}
	}
}

func TestEventReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	busy := fixtures.CreateEvent(ctx, "Busy")
	empty := fixtures.CreateEvent(ctx, "Empty")
	zed := fixtures.CreateVolunteer(ctx, "zed", "Zed")
	amy := fixtures.CreateVolunteer(ctx, "amy", "Amy")
	fixtures.CreateAssignment(ctx, busy.ID, zed.ID)
	fixtures.CreateAssignment(ctx, busy.ID, amy.ID)

	rows, err := reportqueries.EventReport(ctx, db)
	if err != nil {
		t.Fatalf("EventReport failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Event.ID != busy.ID || rows[0].VolunteerCount != 2 {
		t.Errorf("busy row: got %+v", rows[0])
	}
	if rows[0].Volunteers[0].Name != "amy" || rows[0].Volunteers[0].Email != "amy@example.com" {
		t.Errorf("volunteers not sorted by name: %+v", rows[0].Volunteers)
	}
	if rows[1].Event.ID != empty.ID || rows[1].VolunteerCount != 0 || rows[1].Volunteers == nil {
		t.Errorf("empty row: got %+v", rows[1])
	}
}

func TestVolunteerReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	later := fixtures.CreateEvent(ctx, "Later")
	earlier := fixtures.CreateEvent(ctx, "Earlier")
	if _, err := db.Collection("events").UpdateOne(ctx, bson.M{"_id": earlier.ID}, bson.M{"$set": bson.M{"date": "2029-06-01"}}); err != nil {
		t.Fatal(err)
	}
	amy := fixtures.CreateVolunteer(ctx, "amy", "Amy")
	idle := fixtures.CreateVolunteer(ctx, "idle", "Idle")
	fixtures.CreateAdmin(ctx, "root", "root@example.com")
	fixtures.CreateAssignment(ctx, later.ID, amy.ID)
	fixtures.CreateAssignment(ctx, earlier.ID, amy.ID)
	fixtures.CreateAssignment(ctx, primitive.NewObjectID(), amy.ID) // deleted event

	rows, err := reportqueries.VolunteerReport(ctx, db)
	if err != nil {
		t.Fatalf("VolunteerReport failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 volunteers, got %d", len(rows))
	}
	if rows[0].Volunteer.ID != amy.ID {
		t.Fatalf("first row: got %s, want amy", rows[0].Volunteer.Name)
	}
	evs := rows[0].Events
	if len(evs) != 2 || evs[0].ID != earlier.ID || evs[1].ID != later.ID {
		t.Errorf("amy events: got %+v", evs)
	}
	if rows[1].Volunteer.ID != idle.ID || len(rows[1].Events) != 0 || rows[1].Events == nil {
		t.Errorf("idle row: got %+v", rows[1])
	}
}
