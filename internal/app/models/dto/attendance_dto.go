package dto

import "github.com/meeras/brigadier/internal/app/models"

// MarkRequest is the body of POST /api/attendance/mark. Status defaults to
// PRESENT when omitted.
type MarkRequest struct {
	StudentID  string                  `json:"studentId"`
	EventDayID string                  `json:"eventDayId"`
	Session    models.Session          `json:"session"`
	Status     models.AttendanceStatus `json:"status"`
}

// BulkMarkRequest is the body of POST /api/attendance/bulk-mark.
type BulkMarkRequest struct {
	StudentIDs []string                `json:"studentIds"`
	EventDayID string                  `json:"eventDayId"`
	Session    models.Session          `json:"session"`
	Status     models.AttendanceStatus `json:"status"`
}

// BulkMarkResponse is the reply of a successful bulk-mark.
type BulkMarkResponse struct {
	Message string                     `json:"message"`
	Records []*models.AttendanceRecord `json:"records"`
}

// AttendanceListResponse is the paginated reply of GET /api/attendance.
type AttendanceListResponse struct {
	Records    []*models.AttendanceRecord `json:"records"`
	Pagination PaginationInfo             `json:"pagination"`
}

// AttendanceFilter collects the query filters of GET /api/attendance.
type AttendanceFilter struct {
	EventDayID string
	BrigadeID  string
	Session    string
	Page       int
	Limit      int
}
