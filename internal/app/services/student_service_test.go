package services_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	pkgauth "github.com/meeras/brigadier/internal/pkg/auth"
)

type fakeStudentStore struct {
	students    map[string]*models.Student
	deactivated []string
	nextID      int
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[string]*models.Student)}
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.Student) error {
	for _, existing := range f.students {
		if existing.TempRollNumber == student.TempRollNumber {
			return apperrors.ErrRollNumberExists
		}
	}
	f.nextID++
	student.ID = "stu-" + strconv.Itoa(f.nextID)
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id string) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentStore) List(_ context.Context, _ *dto.StudentFilter, brigadeIDs []string, _, _ int) ([]*models.Student, int64, error) {
	var out []*models.Student
	for _, student := range f.students {
		if brigadeIDs != nil {
			if student.BrigadeID == nil || !contains(brigadeIDs, *student.BrigadeID) {
				continue
			}
		}
		out = append(out, student)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentStore) Update(_ context.Context, id string, req *dto.UpdateStudentRequest) error {
	student, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.BrigadeID != nil {
		if *req.BrigadeID == "" {
			student.BrigadeID = nil
		} else {
			student.BrigadeID = req.BrigadeID
		}
	}
	return nil
}

func (f *fakeStudentStore) Deactivate(_ context.Context, id string) error {
	f.deactivated = append(f.deactivated, id)
	return nil
}

type fakeAccountStore struct {
	created []*models.User
}

func (f *fakeAccountStore) Create(_ context.Context, user *models.User) error {
	user.ID = "acct-" + strconv.Itoa(len(f.created)+1)
	f.created = append(f.created, user)
	return nil
}

type fakeStudentAttendance struct{}

func (f *fakeStudentAttendance) ListByStudent(_ context.Context, _ string) ([]*models.AttendanceRecord, error) {
	return nil, nil
}

func newStudentFixture() (*services.StudentService, *fakeStudentStore, *fakeAccountStore) {
	store := newFakeStudentStore()
	accounts := &fakeAccountStore{}
	svc := services.NewStudentService(store, accounts, &fakeStudentAttendance{})
	return svc, store, accounts
}

func TestStudentService_CreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("without linked account", func(t *testing.T) {
		svc, _, accounts := newStudentFixture()

		student, err := svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
			TempRollNumber: "R-001",
			FirstName:      "Asha",
			LastName:       "Nair",
		})
		require.NoError(t, err)
		assert.Nil(t, student.UserID)
		assert.Empty(t, accounts.created)
	})

	t.Run("with linked account gets the default password", func(t *testing.T) {
		svc, _, accounts := newStudentFixture()

		student, err := svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
			TempRollNumber:    "R-002",
			FirstName:         "Ravi",
			LastName:          "Kumar",
			Email:             strPtr("ravi@camp.local"),
			CreateUserAccount: true,
		})
		require.NoError(t, err)
		require.NotNil(t, student.UserID)
		require.Len(t, accounts.created, 1)

		account := accounts.created[0]
		assert.Equal(t, models.RoleStudent, account.Role)
		assert.True(t, pkgauth.CheckPassword(account.Password, "student123"))
	})

	t.Run("account flag without email is ignored", func(t *testing.T) {
		svc, _, accounts := newStudentFixture()

		student, err := svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
			TempRollNumber:    "R-003",
			FirstName:         "Mira",
			LastName:          "Das",
			CreateUserAccount: true,
		})
		require.NoError(t, err)
		assert.Nil(t, student.UserID)
		assert.Empty(t, accounts.created)
	})

	t.Run("lead cannot place a student outside own brigades", func(t *testing.T) {
		svc, store, _ := newStudentFixture()

		_, err := svc.CreateStudent(ctx, leadScope("brig-1"), &dto.CreateStudentRequest{
			TempRollNumber: "R-004",
			FirstName:      "Tanu",
			LastName:       "Roy",
			BrigadeID:      strPtr("brig-9"),
		})
		assert.ErrorIs(t, err, apperrors.ErrBrigadeOutsideScope)
		assert.Empty(t, store.students)
	})

	t.Run("duplicate roll number", func(t *testing.T) {
		svc, _, _ := newStudentFixture()

		_, err := svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
			TempRollNumber: "R-005", FirstName: "A", LastName: "B",
		})
		require.NoError(t, err)
		_, err = svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
			TempRollNumber: "R-005", FirstName: "C", LastName: "D",
		})
		assert.ErrorIs(t, err, apperrors.ErrRollNumberExists)
	})
}

func TestStudentService_GetStudent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newStudentFixture()

	student, err := svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
		TempRollNumber: "R-010",
		FirstName:      "Asha",
		LastName:       "Nair",
		BrigadeID:      strPtr("brig-1"),
	})
	require.NoError(t, err)

	t.Run("lead inside scope", func(t *testing.T) {
		got, err := svc.GetStudent(ctx, leadScope("brig-1"), student.ID)
		require.NoError(t, err)
		assert.Equal(t, student.ID, got.ID)
	})

	t.Run("lead outside scope is forbidden, not missing", func(t *testing.T) {
		_, err := svc.GetStudent(ctx, leadScope("brig-2"), student.ID)
		assert.ErrorIs(t, err, apperrors.ErrStudentOutsideScope)
	})

	t.Run("student sees only self", func(t *testing.T) {
		otherScope := studentScope("stu-other")
		_, err := svc.GetStudent(ctx, otherScope, student.ID)
		assert.ErrorIs(t, err, apperrors.ErrStudentOutsideScope)

		ownScope := studentScope(student.ID)
		got, err := svc.GetStudent(ctx, ownScope, student.ID)
		require.NoError(t, err)
		assert.Equal(t, student.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetStudent(ctx, adminScope(), "nope")
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestStudentService_UpdateStudent(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newStudentFixture()

	student, err := svc.CreateStudent(ctx, adminScope(), &dto.CreateStudentRequest{
		TempRollNumber: "R-020",
		FirstName:      "Asha",
		LastName:       "Nair",
		BrigadeID:      strPtr("brig-1"),
	})
	require.NoError(t, err)

	t.Run("lead cannot move a student into a foreign brigade", func(t *testing.T) {
		_, err := svc.UpdateStudent(ctx, leadScope("brig-1"), student.ID, &dto.UpdateStudentRequest{
			BrigadeID: strPtr("brig-9"),
		})
		assert.ErrorIs(t, err, apperrors.ErrBrigadeOutsideScope)
	})

	t.Run("admin clears the brigade with an empty id", func(t *testing.T) {
		got, err := svc.UpdateStudent(ctx, adminScope(), student.ID, &dto.UpdateStudentRequest{
			BrigadeID: strPtr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, got.BrigadeID)
	})

	t.Run("delete is a soft delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteStudent(ctx, student.ID))
		assert.Equal(t, []string{student.ID}, store.deactivated)
	})
}
