// Package auth resolves the data-access scope of an authenticated user.
// Controllers and services consult the scope instead of branching on the
// role directly, so the visibility rules live in exactly one place.
package auth

import (
	"context"

	"github.com/meeras/brigadier/internal/app/models"
)

// Scope describes which rows a request may touch. Admins see everything,
// brigade leads see the brigades they lead plus the students inside them,
// and students see only their own record.
type Scope struct {
	Role       models.Role
	UserID     string
	BrigadeIDs []string
	StudentID  string
}

// All reports whether the scope is unrestricted.
func (s Scope) All() bool {
	return s.Role == models.RoleAdmin
}

// CanAccessBrigade reports whether the brigade is visible to this scope.
func (s Scope) CanAccessBrigade(brigadeID string) bool {
	if s.All() {
		return true
	}
	if s.Role != models.RoleBrigadeLead {
		return false
	}
	for _, id := range s.BrigadeIDs {
		if id == brigadeID {
			return true
		}
	}
	return false
}

// CanAccessStudent reports whether the student is visible to this scope.
func (s Scope) CanAccessStudent(student *models.Student) bool {
	if s.All() {
		return true
	}
	switch s.Role {
	case models.RoleBrigadeLead:
		if student.BrigadeID == nil {
			return false
		}
		return s.CanAccessBrigade(*student.BrigadeID)
	case models.RoleStudent:
		return s.StudentID != "" && s.StudentID == student.ID
	}
	return false
}

// LedBrigadeLister yields the IDs of active brigades led by a user.
type LedBrigadeLister interface {
	ListIDsByLeader(ctx context.Context, leaderID string) ([]string, error)
}

// StudentIDLookup resolves the student row linked to a user account.
// An empty ID with a nil error means no student is linked.
type StudentIDLookup interface {
	GetIDByUser(ctx context.Context, userID string) (string, error)
}

// ScopeResolver builds a Scope for the current user on every request.
// Brigade leadership is looked up fresh rather than baked into the JWT,
// so reassigning a leader takes effect without reissuing tokens.
type ScopeResolver struct {
	brigades LedBrigadeLister
	students StudentIDLookup
}

// NewScopeResolver creates a ScopeResolver backed by the given lookups.
func NewScopeResolver(brigades LedBrigadeLister, students StudentIDLookup) *ScopeResolver {
	return &ScopeResolver{brigades: brigades, students: students}
}

// Resolve computes the access scope for the authenticated user.
func (r *ScopeResolver) Resolve(ctx context.Context, user *models.User) (Scope, error) {
	scope := Scope{Role: user.Role, UserID: user.ID}

	switch user.Role {
	case models.RoleBrigadeLead:
		ids, err := r.brigades.ListIDsByLeader(ctx, user.ID)
		if err != nil {
			return Scope{}, err
		}
		scope.BrigadeIDs = ids
	case models.RoleStudent:
		id, err := r.students.GetIDByUser(ctx, user.ID)
		if err != nil {
			return Scope{}, err
		}
		scope.StudentID = id
	}

	return scope, nil
}
