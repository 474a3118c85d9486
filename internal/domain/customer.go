package domain

import "time"

// Customer carries shipping and contact details for a user. Contact doubles as the username.
type Customer struct {
	ID         string
	UserID     string
	Ship       string
	Supervisor string
	Contact    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
