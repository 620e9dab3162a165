package profilestore

import (
	"context"
	"time"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
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
	return &Store{c: db.Collection("profiles")}
}

// Get returns the profile for userID, or mongo.ErrNoDocuments.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// Upsert writes p as the profile of p.UserID, creating it on first save.
// Callers validate and sanitize first.
func (s *Store) Upsert(ctx context.Context, p models.Profile) (models.Profile, error) {
	now := time.Now().UTC()
	p.FullNameCI = text.Fold(p.FullName)
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Availability == nil {
		p.Availability = []string{}
	}

	set := bson.M{
		"full_name":    p.FullName,
		"full_name_ci": p.FullNameCI,
		"address1":     p.Address1,
		"address2":     p.Address2,
		"city":         p.City,
		"state":        p.State,
		"zip":          p.Zip,
		"skills":       p.Skills,
		"preferences":  p.Preferences,
		"availability": p.Availability,
		"updated_at":   now,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.Profile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": p.UserID},
		bson.M{"$set": set, "$setOnInsert": bson.M{"created_at": now}},
		opts,
	).Decode(&out)
	if err != nil {
		return models.Profile{}, err
	}
	return out, nil
}

// ListBySkills returns profiles having at least one of skills, sorted by
// full name. An empty skills list matches nothing.
func (s *Store) ListBySkills(ctx context.Context, skills []string) ([]models.Profile, error) {
	if len(skills) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx,
		bson.M{"skills": bson.M{"$in": skills}},
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "user_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
