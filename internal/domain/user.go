package domain

import "time"

// User represents an account of the to-do service.
type User struct {
	ID           int64
	PublicID     string
	Name         string
	PasswordHash string
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
