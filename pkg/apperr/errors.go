// Package apperr defines the error shapes shared by every funds component.
// Domain failures are values, not panics: validation failures carry every
// violated rule at once, and provider failures stay distinguishable from our
// own business-rule rejections all the way up to the transport layer.
package apperr

import "strings"

// ValidationError reports all violated rules for a command in one response
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validation builds a ValidationError from the collected messages
func Validation(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// ProviderError reports a failure from the external payment provider. The
// step that failed may have left earlier committed sub-steps in place; the
// caller is expected to re-check state before retrying.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return "payment provider error: " + e.Message
}
