package user

import "time"

// User is a sign-in identity. Role and approval live on the profile.
type User struct {
	ID           string
	Email        string
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
