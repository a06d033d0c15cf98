// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Every failure a sale or invoice operation reports to a caller is an *AppError.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"
	CodeTimeout  = "TIMEOUT_ERROR"

	// Malformed input (400)
	CodeValidation = "VALIDATION_ERROR"

	// Stock shortage when strict stock is enabled (422)
	CodeInsufficientStock = "INSUFFICIENT_STOCK"

	// Unknown product, customer, sale or invoice (404)
	CodeNotFound = "NOT_FOUND"

	// Second invoice for a sale (409)
	CodeDuplicate = "DUPLICATE_ENTRY"

	// Sale committed, invoice not issued (207)
	CodeInvoiceDerivation = "INVOICE_DERIVATION_FAILED"
)

// AppError carries a machine-readable code, a client-safe message and the
// HTTP status it maps to. Err holds the cause and is never serialised.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

func newError(code string, status int, message string, details map[string]any) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidation reports malformed input: empty carts, non-positive quantities, bad filters.
func NewValidation(message string) *AppError {
	return newError(CodeValidation, http.StatusBadRequest, message, nil)
}

// NewNotFound reports an id or number that does not resolve.
func NewNotFound(entity string, id any) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, entity+" not found",
		map[string]any{"entity": entity, "id": id})
}

// NewInsufficientStock reports a decrement that would take stock below zero.
func NewInsufficientStock(productID, requested, available int64) *AppError {
	return newError(CodeInsufficientStock, http.StatusUnprocessableEntity, "Insufficient stock",
		map[string]any{"product_id": productID, "requested": requested, "available": available})
}

// NewPersistence wraps a storage failure (constraint violation, I/O error).
// The cause is logged but never exposed to clients.
func NewPersistence(op string, err error) *AppError {
	e := newError(CodeDatabase, http.StatusInternalServerError, "Storage rejected the operation",
		map[string]any{"operation": op})
	e.Err = err
	return e
}

// NewTimeout reports a storage operation cut short by its deadline.
func NewTimeout(op string, err error) *AppError {
	e := newError(CodeTimeout, http.StatusGatewayTimeout, "Storage operation timed out",
		map[string]any{"operation": op})
	e.Err = err
	return e
}

// NewInvoiceDerivation reports that a sale committed but its invoice could not be issued.
func NewInvoiceDerivation(saleID int64, err error) *AppError {
	e := newError(CodeInvoiceDerivation, http.StatusMultiStatus, "Sale recorded, invoice pending",
		map[string]any{"sale_id": saleID})
	e.Err = err
	return e
}

// NewInternal hides an unexpected failure from the client.
func NewInternal(err error) *AppError {
	e := newError(CodeInternal, http.StatusInternalServerError, "Internal server error", nil)
	e.Err = err
	return e
}

// NewDuplicate reports a unique key collision, e.g. a second invoice for one sale.
func NewDuplicate(entity, field, value string) *AppError {
	return newError(CodeDuplicate, http.StatusConflict,
		fmt.Sprintf("%s with this %s already exists", entity, field),
		map[string]any{"entity": entity, "field": field, "value": value})
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether the first AppError in the chain carries code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool          { return HasCode(err, CodeNotFound) }
func IsDerivationFailure(err error) bool { return HasCode(err, CodeInvoiceDerivation) }

// OrPersistence returns err unchanged when it already is an AppError,
// otherwise wraps it as a timeout or persistence failure for op.
func OrPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := AsAppError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeout(op, err)
	}
	return NewPersistence(op, err)
}
