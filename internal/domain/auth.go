package domain

import "time"

// Role is a group label attached to a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is a known role label.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer:
		return true
	}
	return false
}

// HasRole reports whether roles contains want.
func HasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}

// Token is an issued access token together with the identity it was issued for.
type Token struct {
	Value      string
	ID         string
	UserID     string
	CustomerID *string
	Roles      []Role
	ExpiresAt  time.Time
	IssuedAt   time.Time
}
