package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error            string   `json:"error"`
	Code             string   `json:"code,omitempty"`
	UnavailableItems []string `json:"unavailableItems,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeCartSize          = "INVALID_CART_SIZE"
	ErrCodeItemsUnavailable  = "ITEMS_UNAVAILABLE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Validationf builds a validation error with a formatted message.
func Validationf(format string, args ...any) *DomainError {
	return NewDomainError(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrEmptyCart        = NewDomainError(ErrCodeCartSize, "Request must contain at least one item")
	ErrUserNotFound     = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrShoeNotFound     = NewDomainError(ErrCodeNotFound, "Shoe not found")
	ErrRequestNotFound  = NewDomainError(ErrCodeNotFound, "Request not found")
	ErrDonationNotFound = NewDomainError(ErrCodeNotFound, "Donation not found")
)

// ErrTooManyItems reports a cart above the per-request cap.
func ErrTooManyItems(limit int) *DomainError {
	return NewDomainError(ErrCodeCartSize, fmt.Sprintf("Request cannot contain more than %d items", limit))
}

// UnavailableError lists every cart item that could not be allocated.
type UnavailableError struct {
	Items []string
}

func (e *UnavailableError) Error() string {
	return "items unavailable: " + strings.Join(e.Items, ", ")
}

// TransitionError is returned when a status change is not in the allowed table.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %q to %q", e.From, e.To)
}

// IsNotFound reports whether err carries a not-found domain code.
func IsNotFound(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == ErrCodeNotFound || de.Code == ErrCodeUserNotFound
	}
	return false
}
