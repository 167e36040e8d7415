package domain

import "time"

// UserRole enumerates supported account roles.
type UserRole string

const (
	RoleDonor     UserRole = "DONOR"
	RoleNonprofit UserRole = "NONPROFIT"
)

// Valid reports whether the role is one of the supported values.
func (r UserRole) Valid() bool {
	return r == RoleDonor || r == RoleNonprofit
}

// User represents a registered account. The role is fixed at registration:
// donors fund campaigns, nonprofits create and manage them.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	Role         UserRole
	CreatedAt    time.Time
}
