// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment is the authoritative join between events and volunteers.
// Exactly one document per (event_id, volunteer_id).
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID     primitive.ObjectID `bson:"event_id" json:"eventId"`
	VolunteerID primitive.ObjectID `bson:"volunteer_id" json:"volunteerId"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
