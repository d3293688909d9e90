package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	pkgauth "github.com/meeras/brigadier/internal/pkg/auth"
)

type fakeAuthUsers struct {
	byEmail    map[string]*models.User
	byID       map[string]*models.User
	lastLogins map[string]time.Time
	stampErr   error
}

func (f *fakeAuthUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeAuthUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeAuthUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	if f.stampErr != nil {
		return f.stampErr
	}
	f.lastLogins[id] = at
	return nil
}

type fakeAuthStudents struct {
	byUser map[string]*models.Student
	byRoll map[string]*models.Student
}

func (f *fakeAuthStudents) GetByUserID(_ context.Context, userID string) (*models.Student, error) {
	student, ok := f.byUser[userID]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeAuthStudents) GetByRollNumber(_ context.Context, roll string) (*models.Student, error) {
	student, ok := f.byRoll[roll]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

type fakeAuthBrigades struct {
	led map[string][]*models.Brigade
}

func (f *fakeAuthBrigades) ListByLeader(_ context.Context, leaderID string) ([]*models.Brigade, error) {
	return f.led[leaderID], nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func newAuthFixture(t *testing.T) (*services.AuthService, *fakeAuthUsers) {
	t.Helper()

	admin := &models.User{
		ID:       "admin-1",
		Email:    "admin@camp.local",
		Password: mustHash(t, "admin123"),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	lead := &models.User{
		ID:       "lead-1",
		Email:    "lead@camp.local",
		Password: mustHash(t, "lead-pass"),
		Role:     models.RoleBrigadeLead,
		IsActive: true,
	}
	studentUser := &models.User{
		ID:       "user-stu",
		Email:    "asha@camp.local",
		Password: mustHash(t, "student123"),
		Role:     models.RoleStudent,
		IsActive: true,
	}
	disabled := &models.User{
		ID:       "gone-1",
		Email:    "gone@camp.local",
		Password: mustHash(t, "whatever"),
		Role:     models.RoleAdmin,
		IsActive: false,
	}

	users := &fakeAuthUsers{
		byEmail: map[string]*models.User{
			admin.Email:       admin,
			lead.Email:        lead,
			studentUser.Email: studentUser,
			disabled.Email:    disabled,
		},
		byID: map[string]*models.User{
			admin.ID:       admin,
			lead.ID:        lead,
			studentUser.ID: studentUser,
			disabled.ID:    disabled,
		},
		lastLogins: make(map[string]time.Time),
	}

	userID := "user-stu"
	students := &fakeAuthStudents{
		byUser: map[string]*models.Student{
			"user-stu": {ID: "stu-1", UserID: &userID, TempRollNumber: "R-042"},
		},
		byRoll: map[string]*models.Student{
			"R-042": {ID: "stu-1", UserID: &userID, TempRollNumber: "R-042"},
			"R-999": {ID: "stu-2", TempRollNumber: "R-999"},
		},
	}

	brigades := &fakeAuthBrigades{led: map[string][]*models.Brigade{
		"lead-1": {{ID: "brig-1", Name: "Alpha"}},
	}}

	jwtService := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "brigadier.test",
	})

	return services.NewAuthService(users, students, brigades, jwtService), users
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, users := newAuthFixture(t)

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@camp.local", Password: "admin123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "admin-1", resp.User.ID)
		assert.Contains(t, users.lastLogins, "admin-1")
	})

	t.Run("lead profile embeds led brigades", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "lead@camp.local", Password: "lead-pass"})
		require.NoError(t, err)
		require.Len(t, resp.User.Brigades, 1)
		assert.Equal(t, "Alpha", resp.User.Brigades[0].Name)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@camp.local", Password: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@camp.local", Password: "admin123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "gone@camp.local", Password: "whatever"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("failed login stamp does not block login", func(t *testing.T) {
		svc, users := newAuthFixture(t)
		users.stampErr = assert.AnError

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@camp.local", Password: "admin123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})
}

func TestAuthService_StudentLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid roll number", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		resp, err := svc.StudentLogin(ctx, &dto.StudentLoginRequest{TempRollNumber: "R-042", Password: "student123"})
		require.NoError(t, err)
		assert.Equal(t, "user-stu", resp.User.ID)
		require.NotNil(t, resp.User.Student)
		assert.Equal(t, "R-042", resp.User.Student.TempRollNumber)
	})

	t.Run("unknown roll number", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.StudentLogin(ctx, &dto.StudentLoginRequest{TempRollNumber: "R-000", Password: "student123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("student without linked account", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.StudentLogin(ctx, &dto.StudentLoginRequest{TempRollNumber: "R-999", Password: "student123"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	t.Run("student role without record still resolves", func(t *testing.T) {
		user := &models.User{ID: "orphan", Role: models.RoleStudent, IsActive: true}
		profile, err := svc.GetProfile(ctx, user)
		require.NoError(t, err)
		assert.Nil(t, profile.Student)
	})
}
