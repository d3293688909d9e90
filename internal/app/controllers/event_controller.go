package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// EventController handles event and event-day endpoints
type EventController struct {
	eventService *services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

// List returns active events with their days
// @Summary List events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EventListResponse
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	page, limit := helpers.ParsePaginationParams(ctx, helpers.DefaultPageSize)

	resp, err := c.eventService.ListEvents(ctx.Request.Context(), page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Current returns the event running today and today's day, if any
// @Summary Get the current event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CurrentEventResponse
// @Failure 404 {object} dto.ErrorResponse "No active event"
// @Router /events/current [get]
func (c *EventController) Current(ctx *gin.Context) {
	resp, err := c.eventService.GetCurrentEvent(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Get returns one event with its days
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} models.Event
// @Router /events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	event, err := c.eventService.GetEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// Days returns the days of an event
// @Summary List the days of an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} models.EventDay
// @Router /events/{id}/days [get]
func (c *EventController) Days(ctx *gin.Context) {
	days, err := c.eventService.GetEventDays(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"days": days})
}

// Create adds an event together with its days
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event with days"
// @Success 201 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Bad date range or time window"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Name, start date, end date and event days are required"))
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// Update applies a partial update to an event
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} models.Event
// @Router /events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	event, err := c.eventService.UpdateEvent(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// UpdateDay adjusts a day's session flags and windows
// @Summary Update an event day
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param dayId path string true "Event day ID"
// @Param request body dto.UpdateEventDayRequest true "Fields to change"
// @Success 200 {object} models.EventDay
// @Router /events/days/{dayId} [put]
func (c *EventController) UpdateDay(ctx *gin.Context) {
	var req dto.UpdateEventDayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	day, err := c.eventService.UpdateEventDay(ctx.Request.Context(), ctx.Param("dayId"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, day)
}

// Delete soft deletes an event without recorded attendance
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Attendance already recorded"
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	if err := c.eventService.DeleteEvent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Event deleted successfully"})
}
