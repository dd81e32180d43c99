package domain

import "time"

// User represents a savings user. Each user owns exactly one account,
// created together with the user at onboarding time.
type User struct {
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
