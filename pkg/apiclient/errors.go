// Package apiclient holds the error taxonomy and retry policy shared by
// the tracker and LLM clients.
package apiclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies a client error into one of the failure families
// callers are expected to branch on.
type ErrorKind string

const (
	// ErrorKindConfiguration covers invalid or missing client configuration
	// detected before any request is dispatched.
	ErrorKindConfiguration ErrorKind = "configuration"
	// ErrorKindAuthentication covers 401 and 403 responses.
	ErrorKindAuthentication ErrorKind = "authentication"
	// ErrorKindRateLimit covers 429 responses.
	ErrorKindRateLimit ErrorKind = "rate_limit"
	// ErrorKindAPI covers any other non-success response.
	ErrorKindAPI ErrorKind = "api"
	// ErrorKindDecode covers malformed response payloads.
	ErrorKindDecode ErrorKind = "decode"
	// ErrorKindTransientNetwork covers connection-level failures.
	ErrorKindTransientNetwork ErrorKind = "transient_network"
)

// Error is the single error type surfaced by the clients. Message never
// contains credentials; callers may log it verbatim.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	// RetryAfter is the server-provided retry hint for rate-limit
	// errors, zero when the server sent none.
	RetryAfter time.Duration
	// Attempts is the number of tries made before the error was
	// surfaced, zero when the request was never retried.
	Attempts int
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0 && e.Attempts > 1:
		return fmt.Sprintf("%s error (status %d, %d attempts): %s", e.Kind, e.StatusCode, e.Attempts, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports invalid client configuration.
func NewConfigurationError(message string) *Error {
	return &Error{Kind: ErrorKindConfiguration, Message: message}
}

// NewAuthenticationError reports a rejected credential.
func NewAuthenticationError(statusCode int, message string) *Error {
	return &Error{Kind: ErrorKindAuthentication, StatusCode: statusCode, Message: message}
}

// NewRateLimitError reports a 429 with the server's retry hint, if any.
func NewRateLimitError(message string, retryAfter time.Duration) *Error {
	return &Error{
		Kind:       ErrorKindRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Message:    message,
		RetryAfter: retryAfter,
	}
}

// NewAPIError reports a non-success response outside the auth and
// rate-limit families.
func NewAPIError(statusCode int, message string) *Error {
	return &Error{Kind: ErrorKindAPI, StatusCode: statusCode, Message: message}
}

// NewDecodeError reports a payload that could not be decoded.
func NewDecodeError(message string, cause error) *Error {
	return &Error{Kind: ErrorKindDecode, Message: message, Err: cause}
}

// NewTransientNetworkError reports a connection-level failure.
func NewTransientNetworkError(message string, cause error) *Error {
	return &Error{Kind: ErrorKindTransientNetwork, Message: message, Err: cause}
}

// ClassifyStatus maps a non-success status code to an Error. The message
// should already be extracted from the response body by the caller.
func ClassifyStatus(statusCode int, message string, retryAfter time.Duration) *Error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewAuthenticationError(statusCode, message)
	case statusCode == http.StatusTooManyRequests:
		return NewRateLimitError(message, retryAfter)
	default:
		return NewAPIError(statusCode, message)
	}
}

// IsConfiguration checks if the error is a configuration error.
func IsConfiguration(err error) bool {
	return hasKind(err, ErrorKindConfiguration)
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	return hasKind(err, ErrorKindAuthentication)
}

// IsRateLimit checks if the error is a rate-limit error.
func IsRateLimit(err error) bool {
	return hasKind(err, ErrorKindRateLimit)
}

// IsDecode checks if the error is a decode error.
func IsDecode(err error) bool {
	return hasKind(err, ErrorKindDecode)
}

// IsTransient reports whether the error is worth retrying: a rate-limit
// or a connection-level failure.
func IsTransient(err error) bool {
	return hasKind(err, ErrorKindRateLimit) || hasKind(err, ErrorKindTransientNetwork)
}

// IsNotFound checks if the error is a 404 API error.
func IsNotFound(err error) bool {
	clientErr := &Error{}
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode == http.StatusNotFound
	}

	return false
}

func hasKind(err error, kind ErrorKind) bool {
	clientErr := &Error{}
	if errors.As(err, &clientErr) {
		return clientErr.Kind == kind
	}

	return false
}
