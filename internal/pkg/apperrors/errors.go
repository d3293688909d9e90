package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenMissing       = errors.New("access token required")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrDuplicateEntry   = errors.New("duplicate entry")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// Student errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrRollNumberExists     = errors.New("student with this roll number already exists")
	ErrStudentOutsideScope  = errors.New("access denied to this student")
	ErrSomeStudentsNotFound = errors.New("some students not found")
)

// Brigade errors
var (
	ErrBrigadeNotFound      = errors.New("brigade not found")
	ErrBrigadeNameExists    = errors.New("brigade with this name already exists")
	ErrBrigadeHasStudents   = errors.New("cannot delete brigade with active students")
	ErrInvalidBrigadeLeader = errors.New("invalid brigade leader")
	ErrBrigadeOutsideScope  = errors.New("access denied to this brigade")
)

// Event errors
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventDayNotFound    = errors.New("event day not found or inactive")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrEventHasAttendance  = errors.New("cannot delete event with attendance records")
	ErrNoCurrentEvent      = errors.New("no active event found")
	ErrSessionNotEnabled   = errors.New("session is not enabled for this day")
	ErrInvalidSession      = errors.New("invalid session")
	ErrInvalidMarkStatus   = errors.New("invalid status")
	ErrInvalidTimeWindow   = errors.New("invalid time format")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// CustomError carries an underlying sentinel plus a request-specific message.
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a 400-class error with a specific message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewForbiddenError creates a 403-class error with a specific message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewNotFoundError creates a 404-class error with a specific message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}
