package domain

import "time"

// User is the login identity. Only active users can authenticate.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsActive     bool
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user belongs to the admin group.
func (u *User) IsAdmin() bool {
	return u != nil && HasRole(u.Roles, RoleAdmin)
}
