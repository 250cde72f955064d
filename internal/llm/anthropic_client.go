package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// defaultMaxTokens bounds Anthropic responses; the API requires a value.
const defaultMaxTokens = 1024

// AnthropicClient implements the GenerationClient interface for Anthropic's
// API. Streaming is surfaced as a single chunk followed by a completion
// signal; attachment parts are not forwarded.
type AnthropicClient struct {
	apiKey string
	model  string
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client with lazy initialization.
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	return &AnthropicClient{
		apiKey: apiKey,
		model:  model,
		client: nil, // Will be initialized lazily
	}
}

// GetProviderName returns the provider name for this client.
func (c *AnthropicClient) GetProviderName() string {
	return "anthropic"
}

// IsConfigured returns true if the client has a valid API key.
func (c *AnthropicClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *AnthropicClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("API key not valid: anthropic API key not configured")
	}
	client := anthropic.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client
	logger.ProviderOperation("anthropic", "initialize", "model", c.model)
	return nil
}

// SendCompletion sends a request and returns the full response text.
func (c *AnthropicClient) SendCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (string, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return "", err
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: defaultMaxTokens,
		Messages:  c.convertMessages(req),
	}
	if req.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemInstruction}}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("Anthropic request failed", "error", err)
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var content string
	for _, block := range message.Content {
		content += block.Text
	}
	if content == "" {
		return "", fmt.Errorf("empty response content")
	}
	return content, nil
}

// StreamCompletion returns the full completion as a single chunk followed by
// the completion signal.
func (c *AnthropicClient) StreamCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (<-chan tutortypes.StreamChunk, error) {
	content, err := c.SendCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	responseChan := make(chan tutortypes.StreamChunk, 2)
	go func() {
		defer close(responseChan)
		responseChan <- tutortypes.StreamChunk{Content: content}
		responseChan <- tutortypes.StreamChunk{Done: true}
	}()

	return responseChan, nil
}

// convertMessages converts the provider-neutral message list to Anthropic
// format, flattening multi-part messages to their text parts.
func (c *AnthropicClient) convertMessages(req *tutortypes.GenerationRequest) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, msg := range req.Messages {
		text := flattenText(msg)
		switch msg.Role {
		case tutortypes.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(text)))
		case tutortypes.RoleModel:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))
		default:
			continue
		}
	}
	return messages
}
