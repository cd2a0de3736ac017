package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes. Every failure returned by HTTPClient matches exactly one of
// ErrTransport or ErrApplication, except credential lookup failures which
// wrap the auth package's errors and body encoding failures, which happen
// before anything is sent.
var (
	ErrTransport         = errors.New("transport failure")
	ErrApplication       = errors.New("application failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrImageChanged      = errors.New("image changed since it was attached")
)

// APIError is an application-level failure reported by the backend, either a
// non-2xx status or an explicit success=false.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", ErrApplication, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s (%d %s)", ErrApplication, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes errors.Is(err, ErrApplication) hold for any *APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrApplication
}

// IsTransport reports whether err is a network or decoding failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// AsAPIError extracts the backend-reported failure from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// MessageOr returns the backend message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
