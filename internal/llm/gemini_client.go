// Package llm provides generation client implementations for Coddify.
// Each provider is hidden behind the tutortypes.GenerationClient interface;
// the session controller never sees a concrete SDK type.
package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// GeminiClient implements the GenerationClient interface for the Google
// Gemini API. The underlying SDK client is created lazily on first use.
type GeminiClient struct {
	apiKey string
	model  string
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client with lazy initialization.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		client: nil, // Will be initialized lazily
	}
}

// GetProviderName returns the provider name for this client.
func (c *GeminiClient) GetProviderName() string {
	return "gemini"
}

// IsConfigured returns true if the client has a valid API key.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// initializeClientIfNeeded initializes the Gemini client if it hasn't been
// initialized yet.
func (c *GeminiClient) initializeClientIfNeeded(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	if c.apiKey == "" {
		return fmt.Errorf("API key not valid: google API key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.apiKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c.client = client
	logger.ProviderOperation("gemini", "initialize", "model", c.model)
	return nil
}

// SendCompletion sends a request and returns the full response text.
func (c *GeminiClient) SendCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (string, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return "", err
	}

	contents := c.convertMessages(req)
	result, err := c.client.Models.GenerateContent(ctx, c.modelFor(req), contents, c.buildConfig(req))
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	return collectText(result), nil
}

// StreamCompletion sends a streaming request. Each response's text parts are
// forwarded as chunks; the channel closes after the final chunk.
func (c *GeminiClient) StreamCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (<-chan tutortypes.StreamChunk, error) {
	if err := c.initializeClientIfNeeded(ctx); err != nil {
		return nil, err
	}

	contents := c.convertMessages(req)
	stream := c.client.Models.GenerateContentStream(ctx, c.modelFor(req), contents, c.buildConfig(req))

	responseChan := make(chan tutortypes.StreamChunk, 10)

	go func() {
		defer close(responseChan)

		for resp, err := range stream {
			if err != nil {
				logger.Error("Gemini stream failed", "error", err)
				responseChan <- tutortypes.StreamChunk{Done: true, Error: err}
				return
			}
			if text := collectText(resp); text != "" {
				responseChan <- tutortypes.StreamChunk{Content: text}
			}
		}

		responseChan <- tutortypes.StreamChunk{Done: true}
	}()

	return responseChan, nil
}

// modelFor returns the request model override or the configured default.
func (c *GeminiClient) modelFor(req *tutortypes.GenerationRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return c.model
}

// convertMessages converts the provider-neutral message list to Gemini
// format. Text parts map directly; attachment parts become inline data.
func (c *GeminiClient) convertMessages(req *tutortypes.GenerationRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.Messages))

	for _, msg := range req.Messages {
		var role string
		switch msg.Role {
		case tutortypes.RoleUser:
			role = genai.RoleUser
		case tutortypes.RoleModel:
			role = genai.RoleModel
		default:
			continue
		}

		parts := make([]*genai.Part, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			switch {
			case part.InlineData != nil:
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Base64Data)
				if err != nil {
					logger.Warn("Skipping undecodable attachment part", "error", err)
					continue
				}
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						Data:     data,
						MIMEType: part.InlineData.MIMEType,
					},
				})
			default:
				parts = append(parts, &genai.Part{Text: part.Text})
			}
		}

		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	if len(contents) == 0 {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: ""}},
		})
	}

	return contents
}

// buildConfig creates the generation config, carrying the system
// instruction when present.
func (c *GeminiClient) buildConfig(req *tutortypes.GenerationRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	return config
}

// collectText concatenates the text parts of all candidates, skipping
// thought parts.
func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
