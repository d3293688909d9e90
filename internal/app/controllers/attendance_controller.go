package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/auth"
	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/app/services"
	"github.com/meeras/brigadier/internal/middleware"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/helpers"
)

// Attendance listings page larger than the other resources.
const attendancePageSize = 50

// AttendanceController handles session marking and attendance queries
type AttendanceController struct {
	attendanceService *services.AttendanceService
	scopes            *auth.ScopeResolver
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, scopes *auth.ScopeResolver) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		scopes:            scopes,
	}
}

// Mark records one student's attendance for a session
// @Summary Mark attendance
// @Description Records attendance for one student. Marking the same student,
// @Description day and session again overwrites the previous status.
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.MarkRequest true "Mark"
// @Success 200 {object} models.AttendanceRecord
// @Failure 400 {object} dto.ErrorResponse "Invalid session, status or disabled session"
// @Failure 403 {object} dto.ErrorResponse "Student outside the caller's brigades"
// @Failure 404 {object} dto.ErrorResponse "Student or event day not found"
// @Router /attendance/mark [post]
func (c *AttendanceController) Mark(ctx *gin.Context) {
	var req dto.MarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("studentId, eventDayId and session are required"))
		return
	}

	scope, user, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	record, err := c.attendanceService.Mark(ctx.Request.Context(), scope, user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, record)
}

// BulkMark records one session's attendance for many students atomically
// @Summary Bulk mark attendance
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkMarkRequest true "Bulk mark"
// @Success 200 {object} dto.BulkMarkResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown students in the batch"
// @Failure 403 {object} dto.ErrorResponse "A student is outside the caller's brigades"
// @Router /attendance/bulk-mark [post]
func (c *AttendanceController) BulkMark(ctx *gin.Context) {
	var req dto.BulkMarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("studentIds, eventDayId and session are required"))
		return
	}

	scope, user, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	resp, err := c.attendanceService.BulkMark(ctx.Request.Context(), scope, user.ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// List returns attendance records visible to the caller
// @Summary List attendance records
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param eventDayId query string false "Filter by event day"
// @Param brigadeId query string false "Filter by brigade (admins)"
// @Param session query string false "FN or AN"
// @Success 200 {object} dto.AttendanceListResponse
// @Router /attendance [get]
func (c *AttendanceController) List(ctx *gin.Context) {
	scope, _, ok := resolveScope(ctx, c.scopes)
	if !ok {
		return
	}

	page, limit := helpers.ParsePaginationParams(ctx, attendancePageSize)
	filter := &dto.AttendanceFilter{
		EventDayID: ctx.Query("eventDayId"),
		BrigadeID:  ctx.Query("brigadeId"),
		Session:    ctx.Query("session"),
		Page:       page,
		Limit:      limit,
	}

	resp, err := c.attendanceService.List(ctx.Request.Context(), scope, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
