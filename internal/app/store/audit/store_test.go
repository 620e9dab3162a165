package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/store/audit"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	eventID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryMatching,
		EventType: audit.EventVolunteersAssigned,
		ActorID:   &actorID,
		EventID:   &eventID,
		Success:   true,
		Details:   map[string]string{"count": "2"},
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{EventID: &eventID, Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Details["count"] != "2" {
		t.Errorf("details: got %v", events[0].Details)
	}
}

func TestStore_Log_AutoSetsTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryEvent, EventType: audit.EventEventCreated, Success: true}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().Add(time.Second)

	events, err := store.Query(ctx, audit.QueryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ts := events[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v not within [%v, %v]", ts, before, after)
	}
}

func TestStore_QueryFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	entries := []audit.Event{
		{Category: audit.CategoryMatching, EventType: audit.EventReconcileCommitted, Success: true, Timestamp: now.Add(-3 * time.Hour)},
		{Category: audit.CategoryMatching, EventType: audit.EventReconcileRejected, Timestamp: now.Add(-2 * time.Hour)},
		{Category: audit.CategoryNotification, EventType: audit.EventNotificationsSent, Success: true, Timestamp: now.Add(-time.Hour)},
	}
	for _, e := range entries {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int64
	}{
		{"all", audit.QueryFilter{}, 3},
		{"by category", audit.QueryFilter{Category: audit.CategoryMatching}, 2},
		{"by type", audit.QueryFilter{EventType: audit.EventReconcileRejected}, 1},
		{"since", audit.QueryFilter{StartTime: ptrTime(now.Add(-90 * time.Minute))}, 1},
		{"until", audit.QueryFilter{EndTime: ptrTime(now.Add(-150 * time.Minute))}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.CountByFilter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountByFilter failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	recent, err := store.Query(ctx, audit.QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(recent) != 2 || recent[0].EventType != audit.EventNotificationsSent {
		t.Errorf("expected most recent first, got %+v", recent)
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
