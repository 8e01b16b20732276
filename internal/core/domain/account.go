package domain

import "time"

// Account is a registered chat user. PasswordHash never leaves the service
// layer: it is excluded from JSON and stripped by Public.
type Account struct {
	ID                string    `json:"_id"`
	Email             string    `json:"email"`
	FullName          string    `json:"fullName"`
	PasswordHash      string    `json:"-"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	About             string    `json:"about"`
	IsOnline          bool      `json:"isOnline"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Public returns a copy of the account without credential material.
func (a Account) Public() Account {
	a.PasswordHash = ""
	return a
}

// ProfileUpdate is a partial update; nil fields are left untouched.
type ProfileUpdate struct {
	FullName          *string
	About             *string
	ProfilePictureURL *string
	IsOnline          *bool
}

// IsEmpty reports whether the update carries no field at all.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.About == nil && u.ProfilePictureURL == nil && u.IsOnline == nil
}
