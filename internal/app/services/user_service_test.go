package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	pkgauth "github.com/meeras/brigadier/internal/pkg/auth"
)

type fakeUserStore struct {
	users       map[string]*models.User
	deactivated []string
	nextID      int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = "user-" + string(rune('0'+f.nextID))
	user.IsActive = true
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) List(_ context.Context, _ *dto.UserFilter, _, _ int) ([]*models.User, int64, error) {
	var out []*models.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserStore) AttachProfiles(_ context.Context, _ []*models.User) error {
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	f.users[id].Password = passwordHash
	return nil
}

func (f *fakeUserStore) Deactivate(_ context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		svc := services.NewUserService(newFakeUserStore())

		user, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email:     "lead@camp.local",
			Password:  "lead-pass",
			FirstName: "Ravi",
			LastName:  "Kumar",
			Role:      models.RoleBrigadeLead,
		})
		require.NoError(t, err)
		assert.NotEqual(t, "lead-pass", user.Password)
		assert.True(t, pkgauth.CheckPassword(user.Password, "lead-pass"))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc := services.NewUserService(newFakeUserStore())

		_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email:    "x@camp.local",
			Password: "long-enough",
			Role:     "SUPERVISOR",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := services.NewUserService(newFakeUserStore())

		_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email:    "x@camp.local",
			Password: "abc",
			Role:     models.RoleAdmin,
		})
		assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		store := newFakeUserStore()
		svc := services.NewUserService(store)

		_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email: "dup@camp.local", Password: "long-enough", Role: models.RoleAdmin,
		})
		require.NoError(t, err)
		_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email: "dup@camp.local", Password: "long-enough", Role: models.RoleAdmin,
		})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*services.UserService, *fakeUserStore, string) {
		store := newFakeUserStore()
		svc := services.NewUserService(store)
		user, err := svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email: "a@camp.local", Password: "old-pass", Role: models.RoleAdmin,
		})
		require.NoError(t, err)
		return svc, store, user.ID
	}

	t.Run("replaces the hash", func(t *testing.T) {
		svc, store, id := setup(t)

		err := svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{
			CurrentPassword: "old-pass",
			NewPassword:     "new-pass",
		})
		require.NoError(t, err)
		assert.True(t, pkgauth.CheckPassword(store.users[id].Password, "new-pass"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, _, id := setup(t)

		err := svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{
			CurrentPassword: "nope",
			NewPassword:     "new-pass",
		})
		assert.ErrorIs(t, err, apperrors.ErrWrongPassword)
	})

	t.Run("short new password", func(t *testing.T) {
		svc, _, id := setup(t)

		err := svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{
			CurrentPassword: "old-pass",
			NewPassword:     "abc",
		})
		assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
	})
}
