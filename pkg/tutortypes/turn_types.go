// Package tutortypes defines the conversation and session types for Coddify.
// This file contains the core types for the ordered transcript of turns
// exchanged between the learner and the model.
package tutortypes

import "time"

// Role identifies the author of a turn.
type Role string

const (
	// RoleUser marks a turn written by the learner.
	RoleUser Role = "user"
	// RoleModel marks a turn produced by the generative model.
	RoleModel Role = "model"
)

// PendingMarker is the reserved content of a placeholder model turn that has
// been appended but not yet received its first streamed chunk. The display
// layer renders it as a typing indicator; it is never sent upstream.
const PendingMarker = "…"

// Turn represents a single utterance in the conversation.
// Turns are immutable once their stream settles; only the single in-flight
// model turn is mutated in place while streaming.
type Turn struct {
	ID         string            `json:"id"`
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	Attachment *AttachmentHandle `json:"attachment,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// AttachmentHandle carries one encoded binary attachment. A handle is derived
// once per selected file and discarded after a single use.
type AttachmentHandle struct {
	Base64Data string `json:"base64_data"`
	MIMEType   string `json:"mime_type"`
}
