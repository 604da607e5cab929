package domain

import (
	"errors"
	"fmt"
	"time"
)

// IntakeError is the standardized error payload returned by the API and MCP tools.
type IntakeError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *IntakeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for the failure classes of the intake
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeStepLocked    = "STEP_LOCKED"
	ErrCodeNotConfirmed  = "CONFIRMATION_REQUIRED"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeInternalError = "INTERNAL_SERVER_ERROR"
)

// ValidationError is a blocking, user-facing validation failure. Message is shown
// to the user as is.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewIntakeError creates a new IntakeError with timestamp
func NewIntakeError(code, message, details, requestID string) *IntakeError {
	return &IntakeError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ErrorCode maps an error returned by the intake service to its payload code.
func ErrorCode(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return ErrCodeValidation
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownQuestionnaire), errors.Is(err, ErrNoConclusion):
		return ErrCodeNotFound
	case errors.Is(err, ErrStepLocked):
		return ErrCodeStepLocked
	case errors.Is(err, ErrResetNotConfirmed):
		return ErrCodeNotConfirmed
	case errors.Is(err, ErrInvalidStep):
		return ErrCodeInvalidInput
	default:
		return ErrCodeInternalError
	}
}

// UserMessage returns the text to show for err: the validation message when there
// is one, the error text otherwise.
func UserMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
