package services

import (
	"context"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	pkgauth "github.com/meeras/brigadier/internal/pkg/auth"
	"github.com/meeras/brigadier/internal/pkg/helpers"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

// defaultStudentPassword seeds accounts created alongside a student record.
// Students are expected to change it on first login.
const defaultStudentPassword = "student123"

// StudentStore is the slice of the student repository the service needs.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter *dto.StudentFilter, brigadeIDs []string, offset, limit int) ([]*models.Student, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest) error
	Deactivate(ctx context.Context, id string) error
}

// StudentAccountStore creates linked user accounts.
type StudentAccountStore interface {
	Create(ctx context.Context, user *models.User) error
}

// StudentAttendanceStore loads a student's attendance history.
type StudentAttendanceStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]*models.AttendanceRecord, error)
}

// StudentService handles roster management.
type StudentService struct {
	students   StudentStore
	accounts   StudentAccountStore
	attendance StudentAttendanceStore
}

// NewStudentService creates a new student service
func NewStudentService(students StudentStore, accounts StudentAccountStore, attendance StudentAttendanceStore) *StudentService {
	return &StudentService{
		students:   students,
		accounts:   accounts,
		attendance: attendance,
	}
}

// scopeBrigadeIDs translates a scope into the repository's brigade
// restriction. Nil means unrestricted; an empty slice matches nothing.
func scopeBrigadeIDs(scope auth.Scope) []string {
	if scope.All() {
		return nil
	}
	if scope.BrigadeIDs == nil {
		return []string{}
	}
	return scope.BrigadeIDs
}

// ListStudents lists active students visible to the scope
func (s *StudentService) ListStudents(ctx context.Context, scope auth.Scope, filter *dto.StudentFilter) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)

	students, total, err := s.students.List(ctx, filter, scopeBrigadeIDs(scope), int(offset), limit)
	if err != nil {
		return nil, err
	}

	return &dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}

// GetStudent retrieves one student with brigade and attendance history.
// A student outside the caller's scope is reported as forbidden, not missing.
func (s *StudentService) GetStudent(ctx context.Context, scope auth.Scope, id string) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessStudent(student) {
		return nil, apperrors.ErrStudentOutsideScope
	}

	records, err := s.attendance.ListByStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	student.AttendanceRecords = records

	return student, nil
}

// CreateStudent creates a student, optionally with a linked user account.
// Brigade leads may only place students into brigades they lead.
func (s *StudentService) CreateStudent(ctx context.Context, scope auth.Scope, req *dto.CreateStudentRequest) (*models.Student, error) {
	if !scope.All() && req.BrigadeID != nil && !scope.CanAccessBrigade(*req.BrigadeID) {
		return nil, apperrors.ErrBrigadeOutsideScope
	}

	student := &models.Student{
		TempRollNumber: req.TempRollNumber,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		BrigadeID:      req.BrigadeID,
	}

	if req.CreateUserAccount && req.Email != nil && *req.Email != "" {
		hash, err := pkgauth.HashPassword(defaultStudentPassword)
		if err != nil {
			return nil, err
		}
		account := &models.User{
			Email:     *req.Email,
			Password:  hash,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      models.RoleStudent,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, err
		}
		student.UserID = &account.ID
		logger.Info().Str("email", account.Email).Msg("Created linked student account")
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, student.ID)
}

// UpdateStudent applies a partial update within the caller's scope
func (s *StudentService) UpdateStudent(ctx context.Context, scope auth.Scope, id string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessStudent(student) {
		return nil, apperrors.ErrStudentOutsideScope
	}
	if !scope.All() && req.BrigadeID != nil && *req.BrigadeID != "" && !scope.CanAccessBrigade(*req.BrigadeID) {
		return nil, apperrors.ErrBrigadeOutsideScope
	}

	if err := s.students.Update(ctx, id, req); err != nil {
		return nil, err
	}

	return s.students.GetByID(ctx, id)
}

// DeleteStudent soft deletes a student
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	return s.students.Deactivate(ctx, id)
}
