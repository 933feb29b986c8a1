package domain

import "time"

// User is an account that reports items, files claims and sends messages.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// UserSummary is the public projection of a user attached to items and claims.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

// Summary projects the user to its public fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
