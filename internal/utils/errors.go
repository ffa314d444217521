package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failures the API reports to clients.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidID
	KindInvalidJSON
	KindDocumentNotFound
	KindPersonNotFound
	KindResourceNotFound
	KindRecordNotFound
	KindForeignKey
	KindUniqueViolation
	KindRouteNotFound
	KindMethodNotAllowed
	KindTimeout
)

// ErrRecordNotFound is the storage signal for a write that matched zero rows.
var ErrRecordNotFound = errors.New("record not found")

func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidID, KindInvalidJSON, KindForeignKey, KindUniqueViolation:
		return http.StatusBadRequest
	case KindDocumentNotFound, KindPersonNotFound, KindResourceNotFound, KindRecordNotFound, KindRouteNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindTimeout:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) Code() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindInvalidID:
		return "INVALID_ID_FORMAT"
	case KindInvalidJSON:
		return "INVALID_JSON"
	case KindDocumentNotFound:
		return "DOCUMENT_NOT_FOUND"
	case KindPersonNotFound:
		return "PERSON_NOT_FOUND"
	case KindResourceNotFound:
		return "RESOURCE_NOT_FOUND"
	case KindRecordNotFound:
		return "RECORD_NOT_FOUND"
	case KindForeignKey:
		return "FOREIGN_KEY_CONSTRAINT"
	case KindUniqueViolation:
		return "UNIQUE_CONSTRAINT"
	case KindRouteNotFound:
		return "NOT_FOUND"
	case KindMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case KindTimeout:
		return "REQUEST_TIMEOUT"
	case KindInternal:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

func (k Kind) String() string {
	return k.Code()
}

type AppError struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode is the HTTP status the error maps to.
func (e *AppError) StatusCode() int {
	return e.Kind.Status()
}

func NewValidationError(details map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: "Request validation failed", Details: details}
}

func NewInvalidIDError(details map[string]string) *AppError {
	return &AppError{Kind: KindInvalidID, Message: "Invalid ID format", Details: details}
}

func NewInvalidJSONError(err error) *AppError {
	return &AppError{Kind: KindInvalidJSON, Message: "Invalid JSON in request body", Err: err}
}

func NewDocumentNotFoundError(id string) *AppError {
	return &AppError{Kind: KindDocumentNotFound, Message: fmt.Sprintf("Document with ID %s not found", id)}
}

func NewPersonNotFoundError(id string) *AppError {
	return &AppError{Kind: KindPersonNotFound, Message: fmt.Sprintf("Person with ID %s not found", id)}
}

func NewResourceNotFoundError(message string) *AppError {
	return &AppError{Kind: KindResourceNotFound, Message: message}
}

func NewForeignKeyError(err error) *AppError {
	return &AppError{Kind: KindForeignKey, Message: "Referenced record does not exist", Err: err}
}

func NewUniqueViolationError(err error) *AppError {
	return &AppError{Kind: KindUniqueViolation, Message: "A record with these values already exists", Err: err}
}

func NewRouteNotFoundError(method, path string) *AppError {
	return &AppError{Kind: KindRouteNotFound, Message: fmt.Sprintf("Route %s %s not found", method, path)}
}

func NewMethodNotAllowedError(method, path string) *AppError {
	return &AppError{Kind: KindMethodNotAllowed, Message: fmt.Sprintf("Method %s not allowed on %s", method, path)}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// AsAppError classifies any error into an *AppError. Errors that are not
// already typed become timeouts, zero-row signals or internal errors.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Kind: KindTimeout, Message: "Request timed out", Err: err}
	case errors.Is(err, ErrRecordNotFound):
		return &AppError{Kind: KindRecordNotFound, Message: "Record not found", Err: err}
	default:
		return NewInternalError("Internal server error", err)
	}
}
