package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles, from least to most privileged.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// User is the credential record. Password is a bcrypt hash; the reset fields
// hold the sha256 of a one-time token and are both set or both cleared.
// Inactive users are excluded from default queries (soft delete).
type User struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                 string             `bson:"name" json:"name"`
	Email                string             `bson:"email" json:"email"`
	Photo                string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role                 string             `bson:"role" json:"role"`
	Password             string             `bson:"password" json:"-"`
	PasswordChangedAt    time.Time          `bson:"password_changed_at,omitempty" json:"-"`
	PasswordResetToken   string             `bson:"password_reset_token,omitempty" json:"-"`
	PasswordResetExpires time.Time          `bson:"password_reset_expires,omitempty" json:"-"`
	Active               bool               `bson:"active" json:"-"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// PasswordChangedAfter reports whether the password was changed after t.
// Comparison is at second granularity to match JWT issued-at timestamps.
func (u *User) PasswordChangedAfter(t time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.Unix() > t.Unix()
}

// HasRole reports membership in the given role set.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
