// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Urgency levels.
const (
	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

// Urgencies lists the accepted urgency values in display order.
var Urgencies = []string{UrgencyLow, UrgencyMedium, UrgencyHigh}

// UnknownEvent is shown wherever an event reference cannot be resolved.
const UnknownEvent = "Unknown event"

// Event is something volunteers can be assigned to.
type Event struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Description    string             `bson:"description" json:"description"`
	Location       string             `bson:"location" json:"location"`
	RequiredSkills []string           `bson:"required_skills" json:"requiredSkills"`
	Urgency        string             `bson:"urgency" json:"urgency"` // Low | Medium | High
	Date           string             `bson:"date" json:"date"`       // YYYY-MM-DD

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// DisplayName returns the event name or UnknownEvent when it is blank.
func (e Event) DisplayName() string {
	if e.Name == "" {
		return UnknownEvent
	}
	return e.Name
}
