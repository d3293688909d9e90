package dto

import (
	"time"

	"github.com/meeras/brigadier/internal/app/models"
)

// EventDayInput describes one day inside CreateEventRequest. Zero-value
// session windows fall back to the standard defaults.
type EventDayInput struct {
	Date        time.Time `json:"date" binding:"required"`
	FNEnabled   *bool     `json:"fnEnabled,omitempty"`
	ANEnabled   *bool     `json:"anEnabled,omitempty"`
	FNStartTime string    `json:"fnStartTime,omitempty" binding:"omitempty,clock"`
	FNEndTime   string    `json:"fnEndTime,omitempty" binding:"omitempty,clock"`
	ANStartTime string    `json:"anStartTime,omitempty" binding:"omitempty,clock"`
	ANEndTime   string    `json:"anEndTime,omitempty" binding:"omitempty,clock"`
}

// CreateEventRequest is the body of POST /api/events.
type CreateEventRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description,omitempty"`
	StartDate   time.Time       `json:"startDate" binding:"required"`
	EndDate     time.Time       `json:"endDate" binding:"required"`
	EventDays   []EventDayInput `json:"eventDays" binding:"required"`
}

// UpdateEventRequest is the body of PUT /api/events/:id.
type UpdateEventRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// UpdateEventDayRequest is the body of PUT /api/events/days/:dayId.
type UpdateEventDayRequest struct {
	FNEnabled   *bool   `json:"fnEnabled,omitempty"`
	ANEnabled   *bool   `json:"anEnabled,omitempty"`
	FNStartTime *string `json:"fnStartTime,omitempty" binding:"omitempty,clock"`
	FNEndTime   *string `json:"fnEndTime,omitempty" binding:"omitempty,clock"`
	ANStartTime *string `json:"anStartTime,omitempty" binding:"omitempty,clock"`
	ANEndTime   *string `json:"anEndTime,omitempty" binding:"omitempty,clock"`
}

// EventListResponse is the paginated reply of GET /api/events.
type EventListResponse struct {
	Events     []*models.Event `json:"events"`
	Pagination PaginationInfo  `json:"pagination"`
}

// CurrentEventResponse is the reply of GET /api/events/current.
type CurrentEventResponse struct {
	Event      *models.Event    `json:"event"`
	CurrentDay *models.EventDay `json:"currentDay"`
}
