package entity

import (
	"time"
)

// User is the aggregate root for the user domain: patients, doctors and
// admins share one table, discriminated by Role.
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	DOB       string // date of birth as submitted (YYYY-MM-DD)
	Gender    Gender
	Password  string
	Role      Role

	// Doctor-only fields. Department groups doctors for booking lookups;
	// the avatar lives in object storage.
	Department     string
	AvatarObjectID string
	AvatarURL      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name used in notification email.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
