package models

import "time"

// Session is one of the two attendance-taking windows per event day.
type Session string

const (
	SessionFN Session = "FN"
	SessionAN Session = "AN"
)

// ValidSession reports whether s is a known session value.
func ValidSession(s Session) bool {
	return s == SessionFN || s == SessionAN
}

// AttendanceStatus is the recorded outcome for a student in a session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
)

// ValidAttendanceStatus reports whether s is a known status value.
func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// AttendanceRecord is the single record for a (student, eventDay, session)
// triple. The database enforces the composite uniqueness; marking always goes
// through the upsert path so a later mark overwrites an earlier one.
type AttendanceRecord struct {
	ID         string           `json:"id" db:"id"`
	StudentID  string           `json:"studentId" db:"student_id"`
	EventDayID string           `json:"eventDayId" db:"event_day_id"`
	Session    Session          `json:"session" db:"session"`
	Status     AttendanceStatus `json:"status" db:"status"`
	MarkedBy   string           `json:"markedBy" db:"marked_by"`
	MarkedAt   time.Time        `json:"markedAt" db:"marked_at"`
	CreatedAt  time.Time        `json:"createdAt" db:"created_at"`

	Student  *Student  `json:"student,omitempty"`
	EventDay *EventDay `json:"eventDay,omitempty"`
}
