package models

import "time"

// Brigade defines a named group of students with one assigned leader.
type Brigade struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	LeaderID  *string   `json:"leaderId,omitempty" db:"leader_id"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Leader       *User      `json:"leader,omitempty"`
	Students     []*Student `json:"students,omitempty"`
	StudentCount int        `json:"studentCount"`
}
