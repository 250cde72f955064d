// Package tutortypes defines session state types for Coddify.
// This file contains the onboarding role, the session phase machine states,
// and the per-session flags that gate submission.
package tutortypes

// SessionRole is the role the person chose during onboarding.
type SessionRole string

const (
	// SessionRoleUnset means onboarding has not completed yet.
	SessionRoleUnset SessionRole = ""
	// SessionRoleStudent requires a validated grade (1-11).
	SessionRoleStudent SessionRole = "student"
	// SessionRoleTeacher requires no grade.
	SessionRoleTeacher SessionRole = "teacher"
)

// GradeUnset is the grade value before (or without) onboarding validation.
const GradeUnset = 0

// Phase is a state of the session controller's state machine.
type Phase string

const (
	// PhaseUnonboarded is the initial state before any role selection.
	PhaseUnonboarded Phase = "unonboarded"
	// PhaseOnboarding means role/grade selection is in progress.
	PhaseOnboarding Phase = "onboarding"
	// PhaseIdle means the session accepts a new submission.
	PhaseIdle Phase = "idle"
	// PhaseSubmitting means a submission is being validated and assembled.
	PhaseSubmitting Phase = "submitting"
	// PhaseStreaming means a model response is being streamed and revealed.
	PhaseStreaming Phase = "streaming"
)

// Session holds the per-session flags. Role and grade become immutable for
// the session once onboarding validation succeeds.
type Session struct {
	Role              SessionRole       `json:"role"`
	Grade             int               `json:"grade"`
	Loading           bool              `json:"loading"`
	PendingAttachment *AttachmentHandle `json:"-"`
}
