package shared

import "errors"

// ErrorKind classifies a DomainError. The HTTP layer maps kinds to status codes.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindBadRequest   ErrorKind = "BAD_REQUEST"
	KindValidation   ErrorKind = "VALIDATION"
	KindBusinessRule ErrorKind = "BUSINESS_RULE"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindInternal     ErrorKind = "INTERNAL"
)

// FieldError describes one invalid field of a request
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind    `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code.
// It lets errors.Is(err, ErrNotFound) match any error built with the NOT_FOUND code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error of the given kind
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a NotFound error
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewConflictError creates a Conflict error
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// NewBadRequestError creates a BadRequest error
func NewBadRequestError(code, message string) *DomainError {
	return NewDomainError(KindBadRequest, code, message)
}

// NewValidationError creates a Validation error carrying per-field details
func NewValidationError(message string, details ...FieldError) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: details,
	}
}

// NewBusinessRuleError creates an error for a request that is well formed but
// violates a business rule (state transition, stock, ...)
func NewBusinessRuleError(code, message string) *DomainError {
	return NewDomainError(KindBusinessRule, code, message)
}

// NewUnauthorizedError creates an authentication error
func NewUnauthorizedError(code, message string) *DomainError {
	return NewDomainError(KindUnauthorized, code, message)
}

// NewForbiddenError creates an authorization error
func NewForbiddenError(code, message string) *DomainError {
	return NewDomainError(KindForbidden, code, message)
}

// Common domain errors
var (
	ErrNotFound          = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewBadRequestError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized      = NewUnauthorizedError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden         = NewForbiddenError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState      = NewBusinessRuleError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock = NewBusinessRuleError("INSUFFICIENT_STOCK", "Insufficient stock available")
)

// KindOf returns the kind of err, or KindInternal when err is not a DomainError
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a NotFound DomainError of any code
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
