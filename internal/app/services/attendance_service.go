package services

import (
	"context"
	"fmt"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

// AttendanceStore is the slice of the attendance repository the service needs.
type AttendanceStore interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) error
	BulkUpsert(ctx context.Context, records []*models.AttendanceRecord) error
	List(ctx context.Context, filter *dto.AttendanceFilter, brigadeIDs []string, studentID string, offset, limit int) ([]*models.AttendanceRecord, int64, error)
}

// AttendanceStudentStore loads the students being marked.
type AttendanceStudentStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
	ListActiveByIDs(ctx context.Context, ids []string) ([]*models.Student, error)
}

// AttendanceDayStore loads the event day a mark lands on.
type AttendanceDayStore interface {
	GetDayByID(ctx context.Context, dayID string) (*models.EventDay, error)
}

// AttendanceService records and queries session attendance.
type AttendanceService struct {
	attendance AttendanceStore
	students   AttendanceStudentStore
	days       AttendanceDayStore
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(attendance AttendanceStore, students AttendanceStudentStore, days AttendanceDayStore) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		students:   students,
		days:       days,
	}
}

// normalizeMark validates the session and status. A missing status defaults
// to PRESENT.
func normalizeMark(session models.Session, status models.AttendanceStatus) (models.AttendanceStatus, error) {
	if !models.ValidSession(session) {
		return "", apperrors.ErrInvalidSession
	}
	if status == "" {
		status = models.StatusPresent
	}
	if !models.ValidAttendanceStatus(status) {
		return "", apperrors.ErrInvalidMarkStatus
	}
	return status, nil
}

// checkDay loads the event day and verifies the session is open on it
func (s *AttendanceService) checkDay(ctx context.Context, dayID string, session models.Session) (*models.EventDay, error) {
	day, err := s.days.GetDayByID(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if !day.SessionEnabled(session) {
		return nil, apperrors.ErrSessionNotEnabled
	}
	return day, nil
}

// Mark records one attendance mark. Marking the same student, day and session
// again overwrites the previous status.
func (s *AttendanceService) Mark(ctx context.Context, scope auth.Scope, markerID string, req *dto.MarkRequest) (*models.AttendanceRecord, error) {
	if req.StudentID == "" || req.EventDayID == "" {
		return nil, apperrors.NewValidationError("studentId and eventDayId are required")
	}
	status, err := normalizeMark(req.Session, req.Status)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !scope.CanAccessStudent(student) {
		return nil, apperrors.ErrStudentOutsideScope
	}

	day, err := s.checkDay(ctx, req.EventDayID, req.Session)
	if err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		StudentID:  req.StudentID,
		EventDayID: req.EventDayID,
		Session:    req.Session,
		Status:     status,
		MarkedBy:   markerID,
	}
	if err := s.attendance.Upsert(ctx, record); err != nil {
		return nil, err
	}
	record.Student = student
	record.EventDay = day

	logger.Debug().
		Str("student_id", req.StudentID).
		Str("event_day_id", req.EventDayID).
		Str("session", string(req.Session)).
		Str("status", string(status)).
		Msg("Attendance marked")

	return record, nil
}

// BulkMark records one session's attendance for many students at once. The
// whole batch is validated first and written in a single transaction, so a
// bad student ID or scope violation writes nothing.
func (s *AttendanceService) BulkMark(ctx context.Context, scope auth.Scope, markerID string, req *dto.BulkMarkRequest) (*dto.BulkMarkResponse, error) {
	if len(req.StudentIDs) == 0 || req.EventDayID == "" {
		return nil, apperrors.NewValidationError("studentIds and eventDayId are required")
	}
	status, err := normalizeMark(req.Session, req.Status)
	if err != nil {
		return nil, err
	}

	students, err := s.students.ListActiveByIDs(ctx, req.StudentIDs)
	if err != nil {
		return nil, err
	}
	if len(students) != len(req.StudentIDs) {
		return nil, apperrors.ErrSomeStudentsNotFound
	}
	for _, student := range students {
		if !scope.CanAccessStudent(student) {
			return nil, apperrors.ErrStudentOutsideScope
		}
	}

	day, err := s.checkDay(ctx, req.EventDayID, req.Session)
	if err != nil {
		return nil, err
	}

	records := make([]*models.AttendanceRecord, 0, len(students))
	for _, student := range students {
		records = append(records, &models.AttendanceRecord{
			StudentID:  student.ID,
			EventDayID: req.EventDayID,
			Session:    req.Session,
			Status:     status,
			MarkedBy:   markerID,
			Student:    student,
			EventDay:   day,
		})
	}
	if err := s.attendance.BulkUpsert(ctx, records); err != nil {
		return nil, err
	}

	logger.Info().
		Int("count", len(records)).
		Str("event_day_id", req.EventDayID).
		Str("session", string(req.Session)).
		Msg("Bulk attendance marked")

	return &dto.BulkMarkResponse{
		Message: fmt.Sprintf("Attendance marked for %d students", len(records)),
		Records: records,
	}, nil
}

// List retrieves attendance records visible to the scope. The brigadeId
// filter is honored for admins; other roles are already scope-limited.
func (s *AttendanceService) List(ctx context.Context, scope auth.Scope, filter *dto.AttendanceFilter) (*dto.AttendanceListResponse, error) {
	if filter.Session != "" && !models.ValidSession(models.Session(filter.Session)) {
		return nil, apperrors.ErrInvalidSession
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)

	var brigadeIDs []string
	var studentID string
	switch scope.Role {
	case models.RoleBrigadeLead:
		brigadeIDs = scopeBrigadeIDs(scope)
		filter.BrigadeID = ""
	case models.RoleStudent:
		if scope.StudentID == "" {
			return nil, apperrors.ErrStudentNotFound
		}
		studentID = scope.StudentID
		filter.BrigadeID = ""
	}

	records, total, err := s.attendance.List(ctx, filter, brigadeIDs, studentID, int(offset), limit)
	if err != nil {
		return nil, err
	}

	return &dto.AttendanceListResponse{
		Records:    records,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, limit),
	}, nil
}
