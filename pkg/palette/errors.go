package palette

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrCanceled is returned by search functions that notice their request was
// superseded. Like context.Canceled it is never surfaced as a failure.
var ErrCanceled = errors.New("palette: search canceled")

// ErrNoSearch is returned when an async request has no search function.
var ErrNoSearch = errors.New("palette: no search function configured")

// DefaultErrorMessage is shown when a failure carries no message of its own.
const DefaultErrorMessage = "Search failed"

// IsCancellation reports whether err signals a superseded request.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, ErrCanceled)
}

// ConfigurationError reports a container that could not be attached because
// required parts are missing.
type ConfigurationError struct {
	Container string
	Missing   []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("palette: container %q initialization failed, missing element(s): %s",
		e.Container, strings.Join(e.Missing, ", "))
}

// SearchFailure wraps a search function error that is not a cancellation.
type SearchFailure struct {
	Query string
	Err   error
}

func (e *SearchFailure) Error() string {
	return fmt.Sprintf("palette: search %q: %v", e.Query, e.Err)
}

func (e *SearchFailure) Unwrap() error { return e.Err }

// Message is the human-readable text exposed on the menu.
func (e *SearchFailure) Message() string {
	if e.Err == nil {
		return DefaultErrorMessage
	}
	if msg := e.Err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
