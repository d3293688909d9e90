package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meeras/brigadier/internal/app/models/dto"
	"github.com/meeras/brigadier/internal/pkg/apperrors"
	"github.com/meeras/brigadier/internal/pkg/logger"
)

// productionMode hides internal error details from 500 responses.
var productionMode = false

// SetProductionMode toggles whether unexpected errors echo their details.
func SetProductionMode(enabled bool) {
	productionMode = enabled
}

type errorMapping struct {
	status int
	label  string
}

// errorTable maps the sentinel taxonomy onto HTTP statuses and wire labels.
var errorTable = []struct {
	err     error
	mapping errorMapping
}{
	{apperrors.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "Invalid credentials"}},
	{apperrors.ErrTokenMissing, errorMapping{http.StatusUnauthorized, "Access token required"}},
	{apperrors.ErrTokenExpired, errorMapping{http.StatusForbidden, "Invalid or expired token"}},
	{apperrors.ErrTokenInvalid, errorMapping{http.StatusForbidden, "Invalid or expired token"}},
	{apperrors.ErrAccountDisabled, errorMapping{http.StatusForbidden, "Invalid or expired token"}},

	{apperrors.ErrPermissionDenied, errorMapping{http.StatusForbidden, "Insufficient permissions"}},
	{apperrors.ErrStudentOutsideScope, errorMapping{http.StatusForbidden, "Access denied to this student"}},
	{apperrors.ErrBrigadeOutsideScope, errorMapping{http.StatusForbidden, "Access denied to this brigade"}},

	{apperrors.ErrUserNotFound, errorMapping{http.StatusNotFound, "User not found"}},
	{apperrors.ErrStudentNotFound, errorMapping{http.StatusNotFound, "Student not found"}},
	{apperrors.ErrBrigadeNotFound, errorMapping{http.StatusNotFound, "Brigade not found"}},
	{apperrors.ErrEventNotFound, errorMapping{http.StatusNotFound, "Event not found"}},
	{apperrors.ErrEventDayNotFound, errorMapping{http.StatusNotFound, "Event day not found or inactive"}},
	{apperrors.ErrNoCurrentEvent, errorMapping{http.StatusNotFound, "No active event found"}},
	{apperrors.ErrNotificationNotFound, errorMapping{http.StatusNotFound, "Notification not found"}},
	{apperrors.ErrResourceNotFound, errorMapping{http.StatusNotFound, "Resource not found"}},

	{apperrors.ErrEmailAlreadyExists, errorMapping{http.StatusBadRequest, "User with this email already exists"}},
	{apperrors.ErrRollNumberExists, errorMapping{http.StatusBadRequest, "Student with this roll number already exists"}},
	{apperrors.ErrBrigadeNameExists, errorMapping{http.StatusBadRequest, "Brigade with this name already exists"}},
	{apperrors.ErrBrigadeHasStudents, errorMapping{http.StatusBadRequest, "Cannot delete brigade with active students"}},
	{apperrors.ErrInvalidBrigadeLeader, errorMapping{http.StatusBadRequest, "Invalid brigade leader"}},
	{apperrors.ErrEventHasAttendance, errorMapping{http.StatusBadRequest, "Cannot delete event with attendance records"}},
	{apperrors.ErrInvalidDateRange, errorMapping{http.StatusBadRequest, "End date must be after start date"}},
	{apperrors.ErrInvalidTimeWindow, errorMapping{http.StatusBadRequest, "Invalid time format"}},
	{apperrors.ErrInvalidSession, errorMapping{http.StatusBadRequest, "Invalid session"}},
	{apperrors.ErrInvalidMarkStatus, errorMapping{http.StatusBadRequest, "Invalid status"}},
	{apperrors.ErrSessionNotEnabled, errorMapping{http.StatusBadRequest, "Session is not enabled for this day"}},
	{apperrors.ErrSomeStudentsNotFound, errorMapping{http.StatusBadRequest, "Some students not found"}},
	{apperrors.ErrInvalidRole, errorMapping{http.StatusBadRequest, "Invalid role"}},
	{apperrors.ErrPasswordTooShort, errorMapping{http.StatusBadRequest, "Password must be at least 6 characters"}},
	{apperrors.ErrWrongPassword, errorMapping{http.StatusBadRequest, "Current password is incorrect"}},
	{apperrors.ErrDuplicateEntry, errorMapping{http.StatusBadRequest, "Duplicate entry"}},
	{apperrors.ErrValidationFailed, errorMapping{http.StatusBadRequest, "Validation failed"}},
}

// HandleAPIError translates a service error into the wire error shape. A
// CustomError's message rides along; everything unmapped becomes a 500.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	detail := ""
	if errors.As(err, &custom) {
		detail = custom.Message
	}

	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			if detail != "" {
				c.JSON(entry.mapping.status, dto.NewErrorResponseWithMessage(entry.mapping.label, detail))
			} else {
				c.JSON(entry.mapping.status, dto.NewErrorResponse(entry.mapping.label))
			}
			return
		}
	}

	logger.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("Unhandled API error")

	if productionMode {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
		return
	}
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithMessage("Internal server error", err.Error()))
}
