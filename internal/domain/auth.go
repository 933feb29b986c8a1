package domain

import "time"

// Session is the verified identity of the caller, built from a session token.
type Session struct {
	UserID    string
	IsAdmin   bool
	TokenID   string
	ExpiresAt time.Time
}
