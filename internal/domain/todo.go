package domain

import "time"

// Todo is a single to-do item owned by exactly one user.
type Todo struct {
	ID        int64
	Text      string
	Completed bool
	UserID    int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
