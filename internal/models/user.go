// server/internal/models/user.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role is the single authorization attribute an identity carries. A missing
// role field reads as RoleNone.
type Role string

const (
	RoleNone  Role = "none"
	RoleAdmin Role = "admin"
)

// User is an identity record, keyed by its unique email.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email string             `bson:"email" json:"email"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Image string             `bson:"image,omitempty" json:"image,omitempty"`
	Role  Role               `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin reports whether the record holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
