package profilestore_test

import (
	"errors"
	"testing"

	profilestore "github.com/dalemusser/volunteerhub/internal/app/store/profiles"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_UpsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	uid := primitive.NewObjectID()
	if _, err := store.Get(ctx, uid); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments before first save, got %v", err)
	}

	first, err := store.Upsert(ctx, models.Profile{
		UserID:       uid,
		FullName:     "Ana Lopez",
		Address1:     "1 Main St",
		City:         "Houston",
		State:        "TX",
		Zip:          "77001",
		Skills:       []string{"Child Care"},
		Availability: []string{"2030-01-01"},
	})
	if err != nil {
		t.Fatalf("Upsert (create) failed: %v", err)
	}
	if first.CreatedAt.IsZero() {
		t.Error("expected created_at to be set on insert")
	}
	if first.FullNameCI != "ana lopez" {
		t.Errorf("FullNameCI: got %q", first.FullNameCI)
	}

	second, err := store.Upsert(ctx, models.Profile{UserID: uid, FullName: "Ana L", Skills: []string{"First Aid & CPR"}})
	if err != nil {
		t.Fatalf("Upsert (update) failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected the same document to be updated")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on update")
	}

	got, err := store.Get(ctx, uid)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.FullName != "Ana L" || len(got.Skills) != 1 || got.Skills[0] != "First Aid & CPR" {
		t.Errorf("Get: got %+v", got)
	}
}

func TestStore_ListBySkills(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := profilestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateVolunteer(ctx, "b", "Beth", "Child Care")
	fixtures.CreateVolunteer(ctx, "a", "Abe", "First Aid & CPR", "Child Care")
	fixtures.CreateVolunteer(ctx, "c", "Cal", "Cleaning & Sanitation")

	got, err := store.ListBySkills(ctx, []string{"Child Care"})
	if err != nil {
		t.Fatalf("ListBySkills failed: %v", err)
	}
	if len(got) != 2 || got[0].FullName != "Abe" || got[1].FullName != "Beth" {
		t.Errorf("ListBySkills: got %+v", got)
	}

	none, err := store.ListBySkills(ctx, nil)
	if err != nil || len(none) != 0 {
		t.Errorf("ListBySkills(nil): got %v, %v", none, err)
	}
}
