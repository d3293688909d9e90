package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// AnalyticsUserStore counts accounts by role.
type AnalyticsUserStore interface {
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

// AnalyticsStudentStore provides roster counts and self lookup.
type AnalyticsStudentStore interface {
	CountActive(ctx context.Context, brigadeIDs []string) (int64, error)
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// AnalyticsBrigadeStore provides brigade counts and led-brigade lookup.
type AnalyticsBrigadeStore interface {
	CountActive(ctx context.Context) (int64, error)
	ListByLeader(ctx context.Context, leaderID string) ([]*models.Brigade, error)
}

// AnalyticsEventStore resolves the event running now.
type AnalyticsEventStore interface {
	GetCurrent(ctx context.Context, now time.Time) (*models.Event, error)
}

// AnalyticsAttendanceStore provides the attendance aggregates.
type AnalyticsAttendanceStore interface {
	Count(ctx context.Context, status *models.AttendanceStatus, brigadeIDs []string, studentID string) (int64, error)
	CountPresentBetween(ctx context.Context, from, to time.Time, brigadeIDs []string) (int64, error)
	ListByStudent(ctx context.Context, studentID string) ([]*models.AttendanceRecord, error)
}

// AnalyticsService computes the role-shaped dashboard statistics.
type AnalyticsService struct {
	users      AnalyticsUserStore
	students   AnalyticsStudentStore
	brigades   AnalyticsBrigadeStore
	events     AnalyticsEventStore
	attendance AnalyticsAttendanceStore
	now        func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(users AnalyticsUserStore, students AnalyticsStudentStore, brigades AnalyticsBrigadeStore, events AnalyticsEventStore, attendance AnalyticsAttendanceStore) *AnalyticsService {
	return &AnalyticsService{
		users:      users,
		students:   students,
		brigades:   brigades,
		events:     events,
		attendance: attendance,
		now:        time.Now,
	}
}

// percentage returns present/total as a percentage rounded to two decimals,
// and 0 when nothing was recorded yet
func percentage(present, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*10000) / 100
}

// Dashboard computes the statistics block matching the caller's role
func (s *AnalyticsService) Dashboard(ctx context.Context, user *models.User) (*dto.DashboardStats, error) {
	switch user.Role {
	case models.RoleAdmin:
		stats, err := s.adminStats(ctx)
		if err != nil {
			return nil, err
		}
		return &dto.DashboardStats{Admin: stats}, nil
	case models.RoleBrigadeLead:
		stats, err := s.brigadeLeadStats(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return &dto.DashboardStats{BrigadeLead: stats}, nil
	case models.RoleStudent:
		stats, err := s.studentStats(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return &dto.DashboardStats{Student: stats}, nil
	}
	return &dto.DashboardStats{}, nil
}

func (s *AnalyticsService) adminStats(ctx context.Context) (*dto.AdminStats, error) {
	totalStudents, err := s.students.CountActive(ctx, nil)
	if err != nil {
		return nil, err
	}
	totalBrigades, err := s.brigades.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalLeads, err := s.users.CountByRole(ctx, models.RoleBrigadeLead)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := helpers.DayBounds(s.now())
	todayAttendance, err := s.attendance.CountPresentBetween(ctx, dayStart, dayEnd, nil)
	if err != nil {
		return nil, err
	}

	total, err := s.attendance.Count(ctx, nil, nil, "")
	if err != nil {
		return nil, err
	}
	present := models.StatusPresent
	presentTotal, err := s.attendance.Count(ctx, &present, nil, "")
	if err != nil {
		return nil, err
	}

	stats := &dto.AdminStats{
		TotalStudents:               totalStudents,
		TotalBrigades:               totalBrigades,
		TotalBrigadeLeads:           totalLeads,
		TodayAttendance:             todayAttendance,
		OverallAttendancePercentage: percentage(presentTotal, total),
	}

	event, err := s.events.GetCurrent(ctx, s.now())
	switch {
	case err == nil:
		stats.CurrentEvent = &dto.CurrentEventSummary{
			Name:      event.Name,
			TotalDays: len(event.EventDays),
		}
	case errors.Is(err, apperrors.ErrNoCurrentEvent):
		// No event running is a normal dashboard state.
	default:
		return nil, err
	}

	return stats, nil
}

func (s *AnalyticsService) brigadeLeadStats(ctx context.Context, userID string) (*dto.BrigadeLeadStats, error) {
	brigades, err := s.brigades.ListByLeader(ctx, userID)
	if err != nil {
		return nil, err
	}

	brigadeIDs := make([]string, 0, len(brigades))
	summaries := make([]dto.BrigadeSummary, 0, len(brigades))
	totalStudents := 0
	for _, brigade := range brigades {
		brigadeIDs = append(brigadeIDs, brigade.ID)
		totalStudents += brigade.StudentCount
		summaries = append(summaries, dto.BrigadeSummary{
			ID:           brigade.ID,
			Name:         brigade.Name,
			StudentCount: brigade.StudentCount,
		})
	}

	dayStart, dayEnd := helpers.DayBounds(s.now())
	todayAttendance, err := s.attendance.CountPresentBetween(ctx, dayStart, dayEnd, brigadeIDs)
	if err != nil {
		return nil, err
	}

	total, err := s.attendance.Count(ctx, nil, brigadeIDs, "")
	if err != nil {
		return nil, err
	}
	present := models.StatusPresent
	presentTotal, err := s.attendance.Count(ctx, &present, brigadeIDs, "")
	if err != nil {
		return nil, err
	}

	return &dto.BrigadeLeadStats{
		TotalBrigades:               len(brigades),
		TotalStudents:               totalStudents,
		TodayAttendance:             todayAttendance,
		BrigadeAttendancePercentage: percentage(presentTotal, total),
		Brigades:                    summaries,
	}, nil
}

func (s *AnalyticsService) studentStats(ctx context.Context, userID string) (*dto.StudentStats, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, nil
		}
		return nil, err
	}

	records, err := s.attendance.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	totalSessions := len(records)
	presentSessions := 0
	todaySessions := 0
	todayPresent := 0
	for _, record := range records {
		isPresent := record.Status == models.StatusPresent
		if isPresent {
			presentSessions++
		}
		if record.EventDay != nil && helpers.SameLocalDay(record.EventDay.Date, now) {
			todaySessions++
			if isPresent {
				todayPresent++
			}
		}
	}

	brigadeName := "No Brigade"
	if student.Brigade != nil {
		brigadeName = student.Brigade.Name
	}

	return &dto.StudentStats{
		StudentInfo: dto.StudentInfo{
			TempRollNumber: student.TempRollNumber,
			Name:           student.FirstName + " " + student.LastName,
			Brigade:        brigadeName,
		},
		AttendancePercentage: percentage(int64(presentSessions), int64(totalSessions)),
		TotalSessions:        totalSessions,
		PresentSessions:      presentSessions,
		TodaySessions:        todaySessions,
		TodayPresent:         todayPresent,
	}, nil
}
