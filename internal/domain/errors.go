package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse = errors.New("empty response from server")
	ErrLoginRequired = errors.New("login required")
	ErrNoEmail       = errors.New("no email available to look up reservations")
	ErrUnknownField  = errors.New("unknown field")
	ErrClosed        = errors.New("form closed")
	ErrNotFound      = errors.New("not found")
)

// ValidationError is a client-side required-field or format failure.
type ValidationError struct {
	Field   string
	Label   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError wraps a transport failure; the request may not have reached the server.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when the body is not JSON.
type MalformedResponseError struct {
	Excerpt string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// APIError is a well-formed response whose status is not "success".
type APIError struct {
	Status  string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request failed with status " + e.Status
	}
	return e.Message
}
