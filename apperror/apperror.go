// Package apperror defines a centralized system for application-specific errors.
// Every handler maps service failures through this package so that API error
// responses stay consistent: validation-class failures carry field-level detail
// as {"errors":[{"msg":...,"param":...}]}, domain errors are {"msg":...}, and
// unexpected failures surface as a generic 500 without leaking internals.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication error (missing/invalid/expired token)
	AuthError
	// ForbiddenError represents an authorization error (authenticated but not owner)
	ForbiddenError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error with field detail
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents an error from an external service
	ExternalServiceError
	// ConflictError represents a conflict, e.g. duplicate registration
	ConflictError
)

// FieldError is one entry of a validation failure, mirroring the
// express-validator style error array of the original API.
type FieldError struct {
	Msg   string `json:"msg" example:"Name is required"`
	Param string `json:"param,omitempty" example:"name"`
}

// AppError is a custom error type for the application.
// It wraps an optional underlying error for debugging and carries optional
// field-level detail for validation-class failures.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  []FieldError
	Err     error // Underlying error, never exposed to clients
}

// Error returns the string representation of the error, satisfying the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, allowing errors.Is and errors.As
// to inspect the chain of wrapped errors.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithFields attaches field-level detail to the error and returns it.
// Errors carrying fields render as an {"errors":[...]} body.
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		// 403 for "authenticated but not the owner"; the original app replied
		// 401 here, which conflated the two classes.
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError, ConflictError:
		// ConflictError is 400 rather than 409 to preserve the wire contract
		// of POST /api/users on duplicate registration.
		return http.StatusBadRequest
	case ExternalServiceError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is the generic constructor; the
// typed constructors below are preferred at call sites.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for authentication issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewForbiddenError creates a new ForbiddenError (for ownership/authorization issues)
func NewForbiddenError(message string, underlyingError error) *AppError {
	return NewAppError(ForbiddenError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError carrying field detail.
func NewValidationError(fields ...FieldError) *AppError {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Msg
	}
	return NewAppError(ValidationError, msg, nil).WithFields(fields...)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewConflictError creates a new ConflictError. The message doubles as the
// single field error so the body matches the original registration response.
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError).
		WithFields(FieldError{Msg: message})
}

// ErrorResponse represents an error response payload for API clients.
// Exactly one of Msg or Errors is populated.
type ErrorResponse struct {
	Msg    string       `json:"msg,omitempty" example:"Post not found"`
	Errors []FieldError `json:"errors,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing message and field detail are included, never the
// underlying error.
func (e *AppError) ToResponse() ErrorResponse {
	if len(e.Fields) > 0 {
		return ErrorResponse{Errors: e.Fields}
	}
	return ErrorResponse{Msg: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsForbidden checks if an error is a ForbiddenError (ownership problem)
func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ForbiddenError
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}
