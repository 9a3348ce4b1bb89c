package apperrors

import "errors"

// Common errors
var (
	// Request errors
	ErrInvalidRequest   = errors.New("invalid request")
	ErrValidationFailed = errors.New("validation failed")

	// Session errors
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionExpired          = errors.New("session expired")
	ErrSessionCodeTaken        = errors.New("session code already taken")
	ErrCodeGenerationExhausted = errors.New("session code generation exhausted")

	// Storage errors
	ErrStoreUnavailable = errors.New("store unavailable")

	// Authentication errors
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
	ErrUnauthorized  = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
)

// NewInvalidRequestError creates a custom error for a missing or malformed
// required field with a specific reason.
func NewInvalidRequestError(message string) error {
	return &CustomError{
		Err:     ErrInvalidRequest,
		Message: message,
	}
}

// NewStoreUnavailableError wraps a transient storage failure. The underlying
// cause stays attached for server-side logging; callers only ever see the
// sentinel and a generic message.
func NewStoreUnavailableError(cause error) error {
	return &CustomError{
		Err:     ErrStoreUnavailable,
		Message: "storage backend unavailable",
		Details: map[string]interface{}{"cause": cause.Error()},
	}
}

// Is returns whether target matches any of the errors in errList
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

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
