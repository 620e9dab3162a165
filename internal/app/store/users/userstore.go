package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/system/normalize"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateUser is returned when the email or username is already taken.
	ErrDuplicateUser = errors.New("a user with this email or username already exists")
	errBadRole       = errors.New(`role must be "admin"|"volunteer"`)
	errBadStatus     = errors.New(`status must be "active"|"disabled"`)
	errNameRequired  = errors.New("name and email are required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Status == "" {
		u.Status = models.StatusActive
	}
	u.Status = normalize.Status(u.Status)

	if u.Name == "" || u.Email == "" {
		return models.User{}, errNameRequired
	}
	if u.Role == "" {
		return models.User{}, errBadRole
	}
	if u.Status == "" {
		return models.User{}, errBadStatus
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, err
	}
	return u, nil
}

// SetRole changes a user's role and re-activates the account.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	r := normalize.Role(role)
	if r == "" {
		return errBadRole
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       r,
		"status":     models.StatusActive,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListVolunteers returns every volunteer regardless of status, sorted by username.
func (s *Store) ListVolunteers(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{"role": models.RoleVolunteer})
}

// ListByIDs loads the users whose ids are in ids. Unknown ids are skipped.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
