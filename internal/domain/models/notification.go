// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotifNewEvent   = "new event"
	NotifAssigned   = "assigned"
	NotifUnassigned = "unassigned"
	NotifReminder   = "reminder"
)

// NotificationTypes lists every accepted notification type.
var NotificationTypes = []string{NotifNewEvent, NotifAssigned, NotifUnassigned, NotifReminder}

// Notification tells one user something about one event.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	EventID     primitive.ObjectID `bson:"event_id" json:"eventId"`
	Type        string             `bson:"type" json:"type"`
	Title       string             `bson:"title" json:"title"`
	DismissedAt *time.Time         `bson:"dismissed_at,omitempty" json:"dismissedAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// IsNotificationType reports whether t is a known notification type.
func IsNotificationType(t string) bool {
	for _, v := range NotificationTypes {
		if v == t {
			return true
		}
	}
	return false
}
