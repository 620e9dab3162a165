package validators_test

import (
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/validators"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) *mongo.Database {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return db
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"users", "profiles", "events", "assignments", "notifications", "audit_events"} {
		if !have[want] {
			t.Errorf("collection %q not created", want)
		}
	}
}

func TestValidators(t *testing.T) {
	db := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"user missing fields", "users", bson.M{"name": "x"}, true},
		{"user bad role", "users", bson.M{"name": "x", "email": "x@y.z", "role": "leader", "status": "active"}, true},
		{"user ok", "users", bson.M{"name": "x", "email": "x@y.z", "role": "volunteer", "status": "active"}, false},
		{"event bad urgency", "events", bson.M{"name": "Drive", "name_ci": "drive", "urgency": "Critical", "date": "2030-01-01"}, true},
		{"event bad skill", "events", bson.M{"name": "Drive", "name_ci": "drive", "urgency": "Low", "date": "2030-01-01", "required_skills": bson.A{"Juggling"}}, true},
		{"event ok", "events", bson.M{"name": "Drive", "name_ci": "drive", "urgency": "Low", "date": "2030-01-01", "required_skills": bson.A{"Child Care"}}, false},
		{"assignment string ids", "assignments", bson.M{"event_id": "e", "volunteer_id": "v"}, true},
		{"assignment ok", "assignments", bson.M{"event_id": primitive.NewObjectID(), "volunteer_id": primitive.NewObjectID()}, false},
		{"notification bad type", "notifications", bson.M{"user_id": primitive.NewObjectID(), "event_id": primitive.NewObjectID(), "type": "spam"}, true},
		{"profile bad zip", "profiles", bson.M{"user_id": primitive.NewObjectID(), "full_name": "A", "skills": bson.A{}, "zip": "1234"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
