package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNetworkError      = errors.New("network error")
	ErrTimeout           = errors.New("request timeout")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrServerError       = errors.New("server error")
	ErrMalformedDocument = errors.New("malformed sessions document")
	ErrNoDevices         = errors.New("no device info to display")
	ErrMissingToken      = errors.New("server token not configured")
	ErrConfigNotFound    = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// WatchError wraps an error with a user-friendly suggestion.
type WatchError struct {
	Err        error
	Suggestion string
}

func (e *WatchError) Error() string {
	return e.Err.Error()
}

func (e *WatchError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &WatchError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var watchErr *WatchError
	if errors.As(err, &watchErr) && watchErr.Suggestion != "" {
		return watchErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrMissingToken) ||
		strings.Contains(errStr, "401") {
		return "Check server.token in your config or set PLEXWATCH_SERVER_TOKEN"
	}

	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host") {
		return "Check that the server is running and server.url is reachable"
	}

	if errors.Is(err, ErrMalformedDocument) {
		return "The server returned an unexpected document; make sure server.url points at a Plex server"
	}

	if errors.Is(err, ErrNoDevices) {
		return "Start playing something on a Plex client"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) {
		return "Run 'plexwatch config init' to create a configuration"
	}

	if errors.Is(err, ErrServerError) || strings.Contains(errStr, "500") {
		return "The server is having issues. It will be polled again on the next refresh"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins the collected errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(p.Errors)))
	for i, err := range p.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
