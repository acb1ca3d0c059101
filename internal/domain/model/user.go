package model

import "time"

type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash string
	Active       bool
	LastAccessAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy safe to hand to transport layers.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
