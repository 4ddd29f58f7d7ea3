package models

import "time"

// Task is owned by exactly one user.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
