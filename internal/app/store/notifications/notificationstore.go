// internal/app/store/notifications/notificationstore.go
package notificationstore

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

// ErrNotFound is returned by Dismiss when no open notification with the
// given id belongs to the user.
var ErrNotFound = errors.New("notification not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// CreateMany inserts one notification per user id, all of the same type and
// title for eventID. Returns the number inserted.
func (s *Store) CreateMany(ctx context.Context, eventID primitive.ObjectID, userIDs []primitive.ObjectID, typ, title string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(userIDs))
	for _, uid := range userIDs {
		docs = append(docs, models.Notification{
			ID:        primitive.NewObjectID(),
			UserID:    uid,
			EventID:   eventID,
			Type:      typ,
			Title:     title,
			CreatedAt: now,
		})
	}
	res, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	n := 0
	if res != nil {
		n = len(res.InsertedIDs)
	}
	return n, err
}

// ListForUser returns the user's notifications that have not been
// dismissed, newest first. limit <= 0 means no limit.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{
		"user_id":      userID,
		"dismissed_at": bson.M{"$exists": false},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dismiss marks one of the user's notifications as dismissed.
func (s *Store) Dismiss(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID, "dismissed_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"dismissed_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeDismissedBefore deletes notifications dismissed before cutoff.
// Returns the number of documents deleted.
func (s *Store) PurgeDismissedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"dismissed_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
