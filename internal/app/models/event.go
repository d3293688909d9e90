package models

import "time"

// Event defines a multi-day happening made up of EventDays.
type Event struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	EventDays []*EventDay `json:"eventDays,omitempty"`
}

// EventDay is a single day of an event. Each day independently enables the
// forenoon and afternoon sessions with configured HH:MM windows.
type EventDay struct {
	ID          string    `json:"id" db:"id"`
	EventID     string    `json:"eventId" db:"event_id"`
	Date        time.Time `json:"date" db:"date"`
	FNEnabled   bool      `json:"fnEnabled" db:"fn_enabled"`
	ANEnabled   bool      `json:"anEnabled" db:"an_enabled"`
	FNStartTime string    `json:"fnStartTime" db:"fn_start_time"`
	FNEndTime   string    `json:"fnEndTime" db:"fn_end_time"`
	ANStartTime string    `json:"anStartTime" db:"an_start_time"`
	ANEndTime   string    `json:"anEndTime" db:"an_end_time"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Event *Event `json:"event,omitempty"`
}

// SessionEnabled reports whether the given session is open for marking on this day.
func (d *EventDay) SessionEnabled(s Session) bool {
	switch s {
	case SessionFN:
		return d.FNEnabled
	case SessionAN:
		return d.ANEnabled
	}
	return false
}
