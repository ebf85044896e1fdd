// Package apperrors defines the error taxonomy surfaced at the HTTP boundary.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	UpstreamRateLimited ErrorType = "UPSTREAM_RATE_LIMITED"
	UpstreamAuthError   ErrorType = "UPSTREAM_AUTH"
	UpstreamNotFound    ErrorType = "UPSTREAM_NOT_FOUND"
	UpstreamParseError  ErrorType = "UPSTREAM_PARSE"
	UpstreamError       ErrorType = "UPSTREAM_ERROR"
	NotFoundError       ErrorType = "NOT_FOUND"
	ServerError         ErrorType = "SERVER_ERROR"
)

// AppError is a classified error. Message is safe to show to end users;
// Detail and Raw are for logs only.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates an AppError with the status implied by its type.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap attaches a classification to a raw error. Wrap(nil, ...) is nil.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func ValidationFailed(message string) *AppError {
	return New(ValidationError, message, "")
}

func RateLimited(message string, err error) *AppError {
	return withRaw(New(UpstreamRateLimited, message, ""), err)
}

func AuthFailed(message string, err error) *AppError {
	return withRaw(New(UpstreamAuthError, message, ""), err)
}

func LocationNotFound(message string, err error) *AppError {
	return withRaw(New(UpstreamNotFound, message, ""), err)
}

func ParseFailed(message string, err error) *AppError {
	return withRaw(New(UpstreamParseError, message, ""), err)
}

func Upstream(message string, err error) *AppError {
	return withRaw(New(UpstreamError, message, ""), err)
}

func NotFound(message string) *AppError {
	return New(NotFoundError, message, "")
}

func withRaw(e *AppError, err error) *AppError {
	if err != nil {
		e.Raw = err
		e.Detail = err.Error()
	}
	return e
}

// From returns err as an AppError, classifying unknown errors as SERVER_ERROR.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ServerError, err.Error())
}

// Is reports whether err carries the given classification.
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// Every upstream failure surfaces as a 500; only bad requests are 4xx.
func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
