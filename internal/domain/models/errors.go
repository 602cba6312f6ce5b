package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// ErrorKind tags an AppError.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNetwork
	KindDecoding
	KindServer
	KindNoData
	KindCache
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecoding:
		return "decoding"
	case KindServer:
		return "server"
	case KindNoData:
		return "no_data"
	case KindCache:
		return "cache"
	default:
		return "unknown"
	}
}

// AppError is the error taxonomy of the retrieval pipeline.
//
// Two AppErrors are the same error when their kinds match; server errors
// must also carry the same status code. The wrapped cause never takes part
// in the comparison, so errors.Is(err, ErrNetwork) holds for any network
// failure.
type AppError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

var (
	ErrNetwork  = &AppError{Kind: KindNetwork}
	ErrDecoding = &AppError{Kind: KindDecoding}
	ErrNoData   = &AppError{Kind: KindNoData}
	ErrCache    = &AppError{Kind: KindCache}
	ErrUnknown  = &AppError{Kind: KindUnknown}
)

func (e *AppError) Error() string {
	msg := e.Kind.String() + " error"
	if e.Kind == KindServer {
		msg = fmt.Sprintf("server error (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports kind equality, see AppError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Equal(t)
}

// Equal compares by kind, and by status code for server errors.
func (e *AppError) Equal(other *AppError) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == KindServer {
		return e.StatusCode == other.StatusCode
	}
	return true
}

// NetworkError wraps a transport level failure.
func NetworkError(err error) *AppError {
	return &AppError{Kind: KindNetwork, Err: err}
}

// DecodingError wraps a schema or parse failure.
func DecodingError(err error) *AppError {
	return &AppError{Kind: KindDecoding, Err: err}
}

// ServerError is a non-2xx response with the given status.
func ServerError(statusCode int) *AppError {
	return &AppError{Kind: KindServer, StatusCode: statusCode}
}

// CacheError wraps a cache read or write failure.
func CacheError(err error) *AppError {
	return &AppError{Kind: KindCache, Err: err}
}

// MapError classifies err into an AppError. Errors that already are
// AppErrors are returned unchanged.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		validErrs validator.ValidationErrors
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &validErrs) {
		return DecodingError(err)
	}

	var (
		netErr net.Error
		urlErr *url.Error
	)
	if errors.As(err, &netErr) || errors.As(err, &urlErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NetworkError(err)
	}

	return &AppError{Kind: KindUnknown, Err: err}
}
