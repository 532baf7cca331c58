// Package entity defines the domain entities for the users feature.
package entity

import "time"

// Role is the coarse-grained authorization tag attached to an account.
// The enumeration is closed; any other value read from storage is a
// data-integrity fault.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "USER"

	// RoleAdmin marks administrative accounts.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known enumeration values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID uint64 `gorm:"primaryKey"`

	// Name is the display name of the user.
	Name string `gorm:"size:100;not null"`

	// Email is the user's email address used for authentication.
	// It is stored lowercase and must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This never stores the plaintext.
	Password string `gorm:"size:255;not null"`

	// Role is the authorization tag for the user.
	Role Role `gorm:"type:varchar(16);not null;default:USER"`

	// CreatedAt is the timestamp when the user was created.
	// It is assigned by the store on insert and immutable thereafter.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
