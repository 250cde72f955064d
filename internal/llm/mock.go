package llm

import (
	"context"
	"sync"

	"coddify/pkg/tutortypes"
)

// MockClient provides a scripted GenerationClient for tests. Each streaming
// call replays the configured chunk texts, then the completion signal, or
// the configured error as the terminal chunk.
type MockClient struct {
	mu       sync.Mutex
	chunks   []string
	err      error
	startErr error
	requests []*tutortypes.GenerationRequest
}

// NewMockClient creates a mock that streams the given chunk texts.
func NewMockClient(chunks ...string) *MockClient {
	return &MockClient{chunks: chunks}
}

// SetStreamError makes every stream end with err after its chunks.
func (m *MockClient) SetStreamError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetStartError makes StreamCompletion itself fail before producing chunks.
func (m *MockClient) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// Requests returns the requests observed so far.
func (m *MockClient) Requests() []*tutortypes.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*tutortypes.GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// GetProviderName returns the provider name for this client.
func (m *MockClient) GetProviderName() string {
	return "mock"
}

// IsConfigured always reports true.
func (m *MockClient) IsConfigured() bool {
	return true
}

// SendCompletion concatenates the scripted chunks.
func (m *MockClient) SendCompletion(_ context.Context, req *tutortypes.GenerationRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.startErr != nil {
		return "", m.startErr
	}
	if m.err != nil {
		return "", m.err
	}
	var full string
	for _, c := range m.chunks {
		full += c
	}
	return full, nil
}

// StreamCompletion replays the scripted chunks over a channel.
func (m *MockClient) StreamCompletion(_ context.Context, req *tutortypes.GenerationRequest) (<-chan tutortypes.StreamChunk, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	chunks := m.chunks
	streamErr := m.err
	startErr := m.startErr
	m.mu.Unlock()

	if startErr != nil {
		return nil, startErr
	}

	responseChan := make(chan tutortypes.StreamChunk, len(chunks)+1)
	go func() {
		defer close(responseChan)
		for _, c := range chunks {
			responseChan <- tutortypes.StreamChunk{Content: c}
		}
		responseChan <- tutortypes.StreamChunk{Done: true, Error: streamErr}
	}()

	return responseChan, nil
}
