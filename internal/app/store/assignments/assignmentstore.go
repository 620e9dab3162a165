// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// BatchResult reports which volunteers a batch actually changed.
type BatchResult struct {
	Changed   []primitive.ObjectID // inserted (assign) or deleted (unassign)
	Unchanged int                  // already present (assign) or already absent (unassign)
}

// AddBatch assigns every volunteer in volunteerIDs to eventID in one
// unordered InsertMany. Pairs that already exist are counted as Unchanged,
// not treated as errors, and are left out of Changed.
func (s *Store) AddBatch(ctx context.Context, eventID primitive.ObjectID, volunteerIDs []primitive.ObjectID) (BatchResult, error) {
	if len(volunteerIDs) == 0 {
		return BatchResult{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(volunteerIDs))
	for _, vid := range volunteerIDs {
		docs = append(docs, models.Assignment{
			ID:          primitive.NewObjectID(),
			EventID:     eventID,
			VolunteerID: vid,
			CreatedAt:   now,
		})
	}

	_, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))

	rejected := map[int]bool{}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			return BatchResult{}, err
		}
		for _, we := range bulkErr.WriteErrors {
			if we.Code != 11000 {
				return BatchResult{}, err
			}
			rejected[we.Index] = true
		}
	}

	res := BatchResult{Unchanged: len(rejected)}
	for i, vid := range volunteerIDs {
		if !rejected[i] {
			res.Changed = append(res.Changed, vid)
		}
	}
	return res, nil
}

// RemoveBatch unassigns every volunteer in volunteerIDs from eventID.
// Volunteers that were not assigned are counted as Unchanged and left out
// of Changed.
func (s *Store) RemoveBatch(ctx context.Context, eventID primitive.ObjectID, volunteerIDs []primitive.ObjectID) (BatchResult, error) {
	if len(volunteerIDs) == 0 {
		return BatchResult{}, nil
	}
	present, err := s.find(ctx, bson.M{
		"event_id":     eventID,
		"volunteer_id": bson.M{"$in": volunteerIDs},
	})
	if err != nil {
		return BatchResult{}, err
	}
	res := BatchResult{Unchanged: len(volunteerIDs) - len(present)}
	if len(present) == 0 {
		return res, nil
	}

	rowIDs := make([]primitive.ObjectID, 0, len(present))
	for _, a := range present {
		rowIDs = append(rowIDs, a.ID)
		res.Changed = append(res.Changed, a.VolunteerID)
	}
	if _, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": rowIDs}}); err != nil {
		return BatchResult{}, err
	}
	return res, nil
}

// ListByEvent returns the assignments of one event.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Assignment, error) {
	return s.find(ctx, bson.M{"event_id": eventID})
}

// ListAll returns every assignment.
func (s *Store) ListAll(ctx context.Context) ([]models.Assignment, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "event_id", Value: 1}, {Key: "volunteer_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
