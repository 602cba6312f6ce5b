package http

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is an error rendered to API clients. Status and RetryAfter shape
// the HTTP response and are not serialised.
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Params     map[string]interface{} `json:"params,omitempty"`
	Status     int                    `json:"-"`
	RetryAfter time.Duration          `json:"-"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an error answered with status.
func NewAppError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error. It is logged, never sent.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func TooManyRequests(message string, retryAfter time.Duration) *AppError {
	e := NewAppError(http.StatusTooManyRequests, "ERR_RATE_LIMITED", message)
	e.RetryAfter = retryAfter
	return e
}

func NotFound(code, message string) *AppError {
	return NewAppError(http.StatusNotFound, code, message)
}

func BadGateway(code, message string) *AppError {
	return NewAppError(http.StatusBadGateway, code, message)
}

func Unavailable(code, message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, code, message)
}

func Internal() *AppError {
	return NewAppError(http.StatusInternalServerError, "ERR_INTERNAL", "Something went wrong")
}
