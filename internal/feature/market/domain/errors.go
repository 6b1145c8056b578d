package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Handlers map kinds to HTTP statuses;
// the service layer decides retry/propagation behavior from them.
type Kind string

const (
	// KindValidation indicates malformed or missing caller input. Never retried.
	KindValidation Kind = "validation"
	// KindNotFound indicates a referenced resource (e.g. a secret parameter) is absent.
	KindNotFound Kind = "not_found"
	// KindTimeout indicates an upstream request exceeded its deadline.
	KindTimeout Kind = "timeout"
	// KindConnectionFailed indicates the upstream connection could not be established.
	KindConnectionFailed Kind = "connection_failed"
	// KindUpstreamFailed indicates the upstream API answered with a non-2xx status.
	KindUpstreamFailed Kind = "upstream_failed"
	// KindParse indicates the upstream payload could not be decoded.
	KindParse Kind = "parse"
	// KindConfiguration indicates the service itself is misconfigured (e.g. no API key).
	KindConfiguration Kind = "configuration"
)

// Error is the typed failure returned at the service boundary. Exactly one
// failure kind applies; StatusCode is set only for KindUpstreamFailed.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidation creates a validation error for malformed caller input.
func NewValidation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound creates a not-found error for an absent resource.
func NewNotFound(resource, identifier string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %q not found", resource, identifier)}
}

// NewTimeout creates a timeout error.
func NewTimeout(cause error) *Error {
	return &Error{Kind: KindTimeout, Message: "request timed out", Cause: cause}
}

// NewConnectionFailed creates a connection error.
func NewConnectionFailed(cause error) *Error {
	return &Error{Kind: KindConnectionFailed, Message: "failed to establish connection", Cause: cause}
}

// NewUpstreamFailed creates an error for a non-2xx upstream response.
func NewUpstreamFailed(statusCode int) *Error {
	return &Error{Kind: KindUpstreamFailed, Message: "upstream request failed", StatusCode: statusCode}
}

// NewParse creates an error for an undecodable upstream payload.
func NewParse(what string, cause error) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf("failed to parse %s", what), Cause: cause}
}

// NewConfiguration creates an error for a service misconfiguration.
func NewConfiguration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// KindOf returns the Kind of err, or an empty Kind if err is not a *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
