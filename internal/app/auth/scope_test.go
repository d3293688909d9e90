package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models"
)

type stubBrigadeLister struct {
	ids map[string][]string
}

func (s *stubBrigadeLister) ListIDsByLeader(_ context.Context, leaderID string) ([]string, error) {
	return s.ids[leaderID], nil
}

type stubStudentLookup struct {
	byUser map[string]string
}

func (s *stubStudentLookup) GetIDByUser(_ context.Context, userID string) (string, error) {
	return s.byUser[userID], nil
}

func strPtr(s string) *string { return &s }

func newResolver() *auth.ScopeResolver {
	return auth.NewScopeResolver(
		&stubBrigadeLister{ids: map[string][]string{
			"lead-1": {"brig-1", "brig-2"},
		}},
		&stubStudentLookup{byUser: map[string]string{
			"user-stu": "stu-1",
		}},
	)
}

func TestScopeResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	resolver := newResolver()

	t.Run("admin", func(t *testing.T) {
		scope, err := resolver.Resolve(ctx, &models.User{ID: "admin-1", Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.True(t, scope.All())
		assert.Nil(t, scope.BrigadeIDs)
	})

	t.Run("brigade lead", func(t *testing.T) {
		scope, err := resolver.Resolve(ctx, &models.User{ID: "lead-1", Role: models.RoleBrigadeLead})
		require.NoError(t, err)
		assert.False(t, scope.All())
		assert.Equal(t, []string{"brig-1", "brig-2"}, scope.BrigadeIDs)
	})

	t.Run("lead without brigades", func(t *testing.T) {
		scope, err := resolver.Resolve(ctx, &models.User{ID: "lead-9", Role: models.RoleBrigadeLead})
		require.NoError(t, err)
		assert.Empty(t, scope.BrigadeIDs)
		assert.False(t, scope.CanAccessBrigade("brig-1"))
	})

	t.Run("student", func(t *testing.T) {
		scope, err := resolver.Resolve(ctx, &models.User{ID: "user-stu", Role: models.RoleStudent})
		require.NoError(t, err)
		assert.Equal(t, "stu-1", scope.StudentID)
	})

	t.Run("student without linked record", func(t *testing.T) {
		scope, err := resolver.Resolve(ctx, &models.User{ID: "user-x", Role: models.RoleStudent})
		require.NoError(t, err)
		assert.Empty(t, scope.StudentID)
		assert.False(t, scope.CanAccessStudent(&models.Student{ID: ""}))
	})
}

func TestScope_CanAccessBrigade(t *testing.T) {
	admin := auth.Scope{Role: models.RoleAdmin}
	assert.True(t, admin.CanAccessBrigade("anything"))

	lead := auth.Scope{Role: models.RoleBrigadeLead, BrigadeIDs: []string{"brig-1"}}
	assert.True(t, lead.CanAccessBrigade("brig-1"))
	assert.False(t, lead.CanAccessBrigade("brig-2"))

	student := auth.Scope{Role: models.RoleStudent, StudentID: "stu-1"}
	assert.False(t, student.CanAccessBrigade("brig-1"))
}

func TestScope_CanAccessStudent(t *testing.T) {
	inBrigade := &models.Student{ID: "stu-1", BrigadeID: strPtr("brig-1")}
	outside := &models.Student{ID: "stu-2", BrigadeID: strPtr("brig-9")}
	unassigned := &models.Student{ID: "stu-3"}

	admin := auth.Scope{Role: models.RoleAdmin}
	assert.True(t, admin.CanAccessStudent(unassigned))

	lead := auth.Scope{Role: models.RoleBrigadeLead, BrigadeIDs: []string{"brig-1"}}
	assert.True(t, lead.CanAccessStudent(inBrigade))
	assert.False(t, lead.CanAccessStudent(outside))
	assert.False(t, lead.CanAccessStudent(unassigned))

	self := auth.Scope{Role: models.RoleStudent, StudentID: "stu-1"}
	assert.True(t, self.CanAccessStudent(inBrigade))
	assert.False(t, self.CanAccessStudent(outside))
}
