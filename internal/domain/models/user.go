// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles.
const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
)

// Statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User is an account: either an admin who manages events or a volunteer.
//
// NOTE:
//   - Volunteer details (full name, skills, availability) live on Profile,
//     keyed by user_id. A volunteer without a profile is never a candidate.
type User struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"` // username
	NameCI string             `bson:"name_ci" json:"-"`
	Email  string             `bson:"email" json:"email"`
	Role   string             `bson:"role" json:"role"` // admin | volunteer
	Status string             `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
