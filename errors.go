// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package topicappender

import "errors"

var (
	// ErrLookup indicates directory resolution of a symbolic name failed.
	ErrLookup = &kindError{
		kind:    "lookup_error",
		message: "directory lookup failed",
	}

	// ErrConnect indicates connection, session, or publisher creation failed.
	ErrConnect = &kindError{
		kind:    "connect_error",
		message: "broker connect failed",
	}

	// ErrPublish indicates a single publish attempt failed.
	ErrPublish = &kindError{
		kind:    "publish_error",
		message: "publish failed",
	}

	// ErrRelease indicates a resource failed to close during Stop.
	ErrRelease = &kindError{
		kind:    "release_error",
		message: "resource release failed",
	}

	// ErrEncoding indicates event serialization failed.
	ErrEncoding = &kindError{
		kind:    "encoding_error",
		message: "encoding failed",
	}

	// ErrValidation indicates configuration validation failed.
	ErrValidation = &kindError{
		kind:    "validation_error",
		message: "validation error",
	}
)

// kindError wraps errors with a stable kind label so report listeners can
// group failures in metrics systems without string-matching messages.
type kindError struct {
	kind    string // stable label, e.g. "lookup_error"
	message string // human-readable message
}

// Error implements the error interface.
func (e *kindError) Error() string {
	return e.message
}

func (e *kindError) Kind() string {
	return e.kind
}

func (e *kindError) Is(target error) bool {
	if t, ok := target.(*kindError); ok {
		return e.message == t.message
	}
	return false
}

// errorKind extracts the kind label for report classification.
// Walks the error chain to find kindError types.
func errorKind(err error) string {
	if err == nil {
		return ""
	}

	var ke *kindError
	if errors.As(err, &ke) {
		return ke.Kind()
	}

	return "unknown"
}
