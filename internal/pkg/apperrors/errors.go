package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleMismatch       = errors.New("role does not match")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrInvalidRole      = errors.New("invalid role")
)

// Account errors
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrLoginIDExists  = errors.New("login ID already exists")
	ErrInvalidLoginID = errors.New("invalid login ID")
)

// Program catalog errors
var (
	ErrProgramNotFound      = errors.New("program not found")
	ErrProgramAlreadyExists = errors.New("program with this name already exists")
	ErrProgramHasSchedules  = errors.New("program has scheduled instances and cannot be deleted")
	ErrScheduleNotFound     = errors.New("scheduled program not found")
	// ErrScheduleHasApplications is returned when deleting a schedule that applications reference.
	ErrScheduleHasApplications = errors.New("scheduled program has applications and cannot be deleted")
)

// Application errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotAccepted         = errors.New("application has not been accepted")
	ErrParticipantExists   = errors.New("participant already enrolled")
)

// CustomError carries a sentinel error plus request-specific context.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
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

// NewCustomError creates a CustomError with an underlying sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Is reports whether err matches target or any error in errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
