package models

import (
	"time"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleBrigadeLead Role = "BRIGADE_LEAD"
	RoleStudent     Role = "STUDENT"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleBrigadeLead, RoleStudent:
		return true
	}
	return false
}

// User defines the user model based on the 'users' table
type User struct {
	ID        string     `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"` // hashed, excluded from JSON
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Role      Role       `json:"role" db:"role"`
	IsActive  bool       `json:"isActive" db:"is_active"`
	LastLogin *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`

	Student  *Student   `json:"student,omitempty"`  // linked student profile, loaded on demand
	Brigades []*Brigade `json:"brigades,omitempty"` // brigades led by this user
}
