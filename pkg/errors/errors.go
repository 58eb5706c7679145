package errors

import (
	"fmt"
	"strings"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// APIError is returned when Shopify answers a request with a non-success status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API error: %s %s: status %d, body: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// TransportError is returned when a call could not be completed at all
// (network failure, auth failure on the session, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when required configuration values are missing
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("%s is required", e.Missing[0])
	}
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}
