package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure classes surfaced to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindRateLimited
)

var kindCodes = map[Kind]string{
	KindInternal:     "INTERNAL_ERROR",
	KindValidation:   "VALIDATION_FAILED",
	KindConflict:     "CONFLICT",
	KindNotFound:     "NOT_FOUND",
	KindUnauthorized: "UNAUTHORIZED",
	KindForbidden:    "FORBIDDEN",
	KindRateLimited:  "RATE_LIMITED",
}

var kindStatuses = map[Kind]int{
	KindInternal:     http.StatusInternalServerError,
	KindValidation:   http.StatusBadRequest,
	KindConflict:     http.StatusConflict,
	KindNotFound:     http.StatusNotFound,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindRateLimited:  http.StatusTooManyRequests,
}

// String returns the wire code of the kind.
func (k Kind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindInternal]
}

// HTTPStatus maps the kind to its response status.
func (k Kind) HTTPStatus() int {
	if status, ok := kindStatuses[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainError standardizes application errors.
type DomainError struct {
	Kind       Kind
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError of the given kind.
func NewDomainError(kind Kind, message string, details map[string]any) *DomainError {
	return &DomainError{
		Kind:       kind,
		Code:       kind.String(),
		Message:    message,
		HTTPStatus: kind.HTTPStatus(),
		Details:    details,
	}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(KindValidation, message, details)
}

func NewNotFound(message string) error {
	return NewDomainError(KindNotFound, message, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(KindUnauthorized, message, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(KindForbidden, message, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(KindConflict, message, details)
}

func NewRateLimited(message string) error {
	return NewDomainError(KindRateLimited, message, nil)
}

// NewInternalError hides err behind a generic message; err is kept for logging.
func NewInternalError(err error) error {
	de := NewDomainError(KindInternal, "internal server error", nil)
	de.Err = err
	return de
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}
