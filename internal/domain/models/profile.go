// internal/domain/models/profile.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile holds a volunteer's contact details, skills and availability.
// Exactly one document per user_id.
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	FullName     string             `bson:"full_name" json:"fullName"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Address1     string             `bson:"address1" json:"address1"`
	Address2     string             `bson:"address2,omitempty" json:"address2,omitempty"`
	City         string             `bson:"city" json:"city"`
	State        string             `bson:"state" json:"state"` // 2-letter code
	Zip          string             `bson:"zip" json:"zip"`
	Skills       []string           `bson:"skills" json:"skills"`
	Preferences  string             `bson:"preferences,omitempty" json:"preferences,omitempty"`
	Availability []string           `bson:"availability" json:"availability"` // YYYY-MM-DD

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
