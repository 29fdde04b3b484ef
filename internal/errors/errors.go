// Package errors provides the structured error type shared by the ledger
// services, the HTTP handlers and the CLI. Service code returns *AppError so
// that callers can surface a stable code without leaking internal details.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target carries the same code, so wrapped copies of a
// sentinel still match it with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Transaction store errors.
var (
	ErrInvalidOperationKind = &AppError{Code: "INVALID_OPERATION_KIND", Message: "Unsupported operation kind", StatusCode: http.StatusBadRequest}
	ErrMissingField         = &AppError{Code: "MISSING_FIELD", Message: "A required field is missing", StatusCode: http.StatusBadRequest}
	ErrNoTransactions       = &AppError{Code: "NO_TRANSACTIONS", Message: "No transactions recorded yet", StatusCode: http.StatusUnprocessableEntity}
)

// Market data errors.
var (
	ErrMarketDataUnavailable = &AppError{Code: "MARKET_DATA_UNAVAILABLE", Message: "Market data could not be fetched", StatusCode: http.StatusBadGateway}
	ErrUnknownTicker         = &AppError{Code: "UNKNOWN_TICKER", Message: "No market data for ticker", StatusCode: http.StatusNotFound}
)

// Categorization errors.
var (
	ErrRawOperationNotFound = &AppError{Code: "RAW_OPERATION_NOT_FOUND", Message: "Raw operation not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrSubCategoryNotFound  = &AppError{Code: "SUB_CATEGORY_NOT_FOUND", Message: "Sub-category not found for this category", StatusCode: http.StatusNotFound}
	ErrAlreadyLinked        = &AppError{Code: "ALREADY_LINKED", Message: "Operation is already categorized", StatusCode: http.StatusConflict}
	ErrNotLinked            = &AppError{Code: "NOT_LINKED", Message: "Operation is not categorized", StatusCode: http.StatusNotFound}
)
