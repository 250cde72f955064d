// Package tutortypes defines generation client types and interfaces for
// Coddify. This file contains the provider-neutral request shape, streaming
// chunk type, and the client abstraction implemented per provider.
package tutortypes

import "context"

// StreamChunk represents a single chunk of streaming response.
type StreamChunk struct {
	Content string // The text content of this chunk
	Done    bool   // Whether this is the final chunk
	Error   error  // Any error that occurred during streaming
}

// MessagePart is one part of an upstream message: text, or one encoded
// attachment as inline data. Exactly one field is set.
type MessagePart struct {
	Text       string
	InlineData *AttachmentHandle
}

// Message is one entry of the ordered upstream message list.
type Message struct {
	Role  Role
	Parts []MessagePart
}

// GenerationRequest is the provider-neutral request assembled by the session
// controller: a system instruction plus the ordered history ending with the
// current submission.
type GenerationRequest struct {
	Model             string
	SystemInstruction string
	Messages          []Message
}

// GenerationClient defines the interface for generation provider
// implementations. It abstracts the concrete provider (Gemini, OpenAI,
// Anthropic, webhook) behind a common completion surface.
type GenerationClient interface {
	// SendCompletion sends a request and returns the full response text.
	SendCompletion(ctx context.Context, req *GenerationRequest) (string, error)

	// StreamCompletion sends a request and returns a channel that receives
	// response chunks as they arrive. The channel is closed after the final
	// chunk (which has Done set).
	StreamCompletion(ctx context.Context, req *GenerationRequest) (<-chan StreamChunk, error)

	// GetProviderName returns the provider name (e.g. "gemini", "openai").
	GetProviderName() string

	// IsConfigured returns true if the client can make requests.
	IsConfigured() bool
}
