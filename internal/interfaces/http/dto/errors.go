package dto

import (
	"errors"
	"net/http"

	"github.com/exonyb/backoffice/internal/domain/shared"
)

// Codes produced by the HTTP layer itself
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
)

// KindHTTPStatus maps domain error kinds to HTTP status codes
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindConflict:     http.StatusConflict,
	shared.KindBadRequest:   http.StatusBadRequest,
	shared.KindValidation:   http.StatusBadRequest,
	shared.KindBusinessRule: http.StatusUnprocessableEntity,
	shared.KindUnauthorized: http.StatusUnauthorized,
	shared.KindForbidden:    http.StatusForbidden,
	shared.KindInternal:     http.StatusInternalServerError,
}

const internalMessage = "An unexpected error occurred"

// GetHTTPStatus returns the HTTP status for an error kind, 500 when unknown
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorInfoOf converts err into its HTTP status and envelope body.
// Errors that are not DomainErrors, and internal DomainErrors, never expose
// their message.
func ErrorInfoOf(err error, requestID string) (int, *ErrorInfo) {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge, &ErrorInfo{
			Code:      ErrCodeRequestTooLarge,
			Message:   "Request body exceeds maximum allowed size",
			RequestID: requestID,
		}
	}

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) || domainErr.Kind == shared.KindInternal || domainErr.Kind == "" {
		code := ErrCodeInternal
		if domainErr != nil && domainErr.Code != "" {
			code = domainErr.Code
		}
		return http.StatusInternalServerError, &ErrorInfo{
			Code:      code,
			Message:   internalMessage,
			RequestID: requestID,
		}
	}

	return GetHTTPStatus(domainErr.Kind), &ErrorInfo{
		Code:      domainErr.Code,
		Message:   domainErr.Message,
		RequestID: requestID,
		Details:   domainErr.Details,
	}
}
