// Package neterror defines the error type surfaced by the storage client.
//
// Every failure that crosses the service boundary - authorization rejections,
// missing resources, upload failures bubbled up from the transport - is
// reported as a NetworkError carrying an HTTP-like status code. Callers
// branch on the code, not on error strings.
package neterror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// NetworkError is an error with an HTTP-like status code and optional
// structured detail.
type NetworkError struct {
	// Code is the HTTP-like status code (401, 403, 404, 500, ...).
	Code int

	// Message is a human-readable description of the failure.
	Message string

	// Details optionally carries structured or string detail returned by
	// the service. May be nil.
	Details interface{}
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error (status %d): %s", e.Code, e.Message)
}

// StatusCode returns the HTTP-like status code.
func (e *NetworkError) StatusCode() int {
	return e.Code
}

// New creates a NetworkError with the given status code and message.
func New(code int, message string) *NetworkError {
	return &NetworkError{Code: code, Message: message}
}

// Newf creates a NetworkError with a formatted message.
func Newf(code int, format string, args ...interface{}) *NetworkError {
	return &NetworkError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails creates a NetworkError carrying structured detail.
func WithDetails(code int, message string, details interface{}) *NetworkError {
	return &NetworkError{Code: code, Message: message, Details: details}
}

// FromResponse converts a non-2xx HTTP response into a NetworkError. The
// response body is consumed. Bodies shaped like {"error": ..., "message": ...}
// contribute their message; anything else is kept verbatim as detail.
func FromResponse(resp *http.Response) *NetworkError {
	body, _ := io.ReadAll(resp.Body)
	return FromStatus(resp.StatusCode, body)
}

// FromStatus builds a NetworkError from a status code and raw response body.
func FromStatus(code int, body []byte) *NetworkError {
	var svcErr struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &svcErr); err == nil {
		switch {
		case svcErr.Message != "":
			return &NetworkError{Code: code, Message: svcErr.Message, Details: svcErr.Error}
		case svcErr.Error != "":
			return &NetworkError{Code: code, Message: svcErr.Error}
		}
	}
	msg := http.StatusText(code)
	if msg == "" {
		msg = "request failed"
	}
	ne := &NetworkError{Code: code, Message: msg}
	if len(body) > 0 {
		ne.Details = string(body)
	}
	return ne
}

// IsNetworkError reports whether err (or any error it wraps) is a
// NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// CodeOf extracts the status code from err. The second return value is false
// when err does not wrap a NetworkError.
func CodeOf(err error) (int, bool) {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Code, true
	}
	return 0, false
}
