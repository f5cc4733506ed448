// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of authorization roles. The wire values match the
// historical database contents, so they stay upper-case.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleStandard Role = "STANDARD"
)

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStandard
}

// User is an account in the library. Email is the identity key and is
// case-normalized before it ever reaches the store.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email    string             `bson:"email" json:"email"`
	FullName string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Disabled bool               `bson:"disabled" json:"disabled"`
	Role     Role               `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
