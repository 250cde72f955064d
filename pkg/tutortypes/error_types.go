// Package tutortypes defines error taxonomy types for Coddify.
// This file contains the stable user-facing failure categories and the typed
// errors that cross component boundaries.
package tutortypes

import (
	"errors"
	"fmt"
)

// ErrorCategory is the stable classification of a transport/service failure.
type ErrorCategory string

const (
	// ErrorGeoRestriction means the provider refused the caller's region.
	ErrorGeoRestriction ErrorCategory = "geo_restriction"
	// ErrorStreamParse means the provider's stream could not be decoded.
	ErrorStreamParse ErrorCategory = "stream_parse_failure"
	// ErrorInvalidCredential means the configured API key was rejected.
	ErrorInvalidCredential ErrorCategory = "invalid_credential"
	// ErrorAttachment means the selected file could not be read or encoded.
	ErrorAttachment ErrorCategory = "attachment_failure"
	// ErrorUnknown covers every failure no other rule matched.
	ErrorUnknown ErrorCategory = "unknown"
)

// ClassifiedError pairs a failure category with its localized display text.
// It is the terminal content written into the in-flight model turn; it is
// never propagated to callers as a Go error.
type ClassifiedError struct {
	Category ErrorCategory
	Message  string
}

// ErrUnrecognizedResponse is returned by the webhook client when the response
// payload matches none of the documented shapes.
var ErrUnrecognizedResponse = errors.New("unrecognized response shape")

// ValidationError reports onboarding input that is out of range. It is
// recovered locally by re-prompting and never creates a turn.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AttachmentError wraps a file read/encode failure so the controller can
// short-circuit the submission before any network activity.
type AttachmentError struct {
	Err error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment failed: %v", e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}
