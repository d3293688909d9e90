package dto

// DashboardStats is the role-shaped reply of GET /api/analytics/dashboard.
// Exactly one of the three sections is populated, matching the caller's role.
type DashboardStats struct {
	Admin       *AdminStats       `json:"admin,omitempty"`
	BrigadeLead *BrigadeLeadStats `json:"brigadeLead,omitempty"`
	Student     *StudentStats     `json:"student,omitempty"`
}

// CurrentEventSummary is the compact current-event block on the admin dashboard.
type CurrentEventSummary struct {
	Name      string `json:"name"`
	TotalDays int    `json:"totalDays"`
}

// AdminStats aggregates system-wide counts for ADMIN users.
type AdminStats struct {
	TotalStudents               int64                `json:"totalStudents"`
	TotalBrigades               int64                `json:"totalBrigades"`
	TotalBrigadeLeads           int64                `json:"totalBrigadeLeads"`
	TodayAttendance             int64                `json:"todayAttendance"`
	OverallAttendancePercentage float64              `json:"overallAttendancePercentage"`
	CurrentEvent                *CurrentEventSummary `json:"currentEvent"`
}

// BrigadeSummary is the per-brigade block on the lead dashboard.
type BrigadeSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	StudentCount int    `json:"studentCount"`
}

// BrigadeLeadStats aggregates counts over the caller's led brigades.
type BrigadeLeadStats struct {
	TotalBrigades               int              `json:"totalBrigades"`
	TotalStudents               int              `json:"totalStudents"`
	TodayAttendance             int64            `json:"todayAttendance"`
	BrigadeAttendancePercentage float64          `json:"brigadeAttendancePercentage"`
	Brigades                    []BrigadeSummary `json:"brigades"`
}

// StudentInfo identifies the student on their own dashboard.
type StudentInfo struct {
	TempRollNumber string `json:"tempRollNumber"`
	Name           string `json:"name"`
	Brigade        string `json:"brigade"`
}

// StudentStats aggregates a single student's attendance history.
type StudentStats struct {
	StudentInfo          StudentInfo `json:"studentInfo"`
	AttendancePercentage float64     `json:"attendancePercentage"`
	TotalSessions        int         `json:"totalSessions"`
	PresentSessions      int         `json:"presentSessions"`
	TodaySessions        int         `json:"todaySessions"`
	TodayPresent         int         `json:"todayPresent"`
}
