package domain

import "time"

// Record is a submission as kept by the development stand-in API.
type Record struct {
	ID         string
	Collection string
	Email      string
	Status     Status
	Date       string
	Time       string
	Data       map[string]any
	CreatedAt  time.Time
}

// StoredUser is a login account of the development stand-in API.
type StoredUser struct {
	ID           int64
	Email        string
	PasswordHash string
	Profile      LoggedInUser
	CreatedAt    time.Time
}
