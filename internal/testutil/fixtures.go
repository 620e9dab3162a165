package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateVolunteer inserts an active volunteer and a profile with the given
// full name and skills, available on 2030-01-01.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name, fullName string, skills ...string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, name+"@example.com", models.RoleVolunteer)
	f.CreateProfile(ctx, u.ID, fullName, skills...)
	return u
}

// CreateDisabledVolunteer inserts a disabled volunteer with a profile.
func (f *Fixtures) CreateDisabledVolunteer(ctx context.Context, name string, skills ...string) models.User {
	f.t.Helper()

	u := f.CreateVolunteer(ctx, name, name, skills...)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"status": models.StatusDisabled}}); err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Status = models.StatusDisabled
	return u
}

// CreateProfile inserts a profile for userID.
func (f *Fixtures) CreateProfile(ctx context.Context, userID primitive.ObjectID, fullName string, skills ...string) models.Profile {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Profile{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Address1:     "1 Main St",
		City:         "Houston",
		State:        "TX",
		Zip:          "77001",
		Skills:       append([]string{}, skills...),
		Availability: []string{"2030-01-01"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("profiles").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test profile: %v", err)
	}
	return p
}

// CreateEvent inserts an event requiring the given skills.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, skills ...string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Description:    name + " description",
		Location:       "Community Center",
		RequiredSkills: append([]string{}, skills...),
		Urgency:        models.UrgencyMedium,
		Date:           "2030-01-01",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// CreateAssignment inserts an assignment of volunteerID to eventID.
func (f *Fixtures) CreateAssignment(ctx context.Context, eventID, volunteerID primitive.ObjectID) models.Assignment {
	f.t.Helper()

	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		EventID:     eventID,
		VolunteerID: volunteerID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// CreateNotification inserts an undismissed notification.
func (f *Fixtures) CreateNotification(ctx context.Context, userID, eventID primitive.ObjectID, typ string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		EventID:   eventID,
		Type:      typ,
		Title:     typ,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
