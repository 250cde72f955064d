package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// OpenAIClient implements the GenerationClient interface for the OpenAI
// chat completions API. Attachment parts are not forwarded; only the Gemini
// provider carries inline data.
type OpenAIClient struct {
	apiKey string
	model  string
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client with lazy initialization.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		apiKey: apiKey,
		model:  model,
		client: nil, // Will be initialized lazily
	}
}

// GetProviderName returns the provider name for this client.
func (c *OpenAIClient) GetProviderName() string {
	return "openai"
}

// IsConfigured returns true if the client has a valid API key.
func (c *OpenAIClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *OpenAIClient) initializeClientIfNeeded() error {
	if c.client != nil {
		return nil
	}
	if c.apiKey == "" {
		return fmt.Errorf("API key not valid: openai API key not configured")
	}
	client := openai.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client
	logger.ProviderOperation("openai", "initialize", "model", c.model)
	return nil
}

// SendCompletion sends a request and returns the full response text.
func (c *OpenAIClient) SendCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (string, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return "", err
	}

	completion, err := c.client.Chat.Completions.New(ctx, c.buildParams(req))
	if err != nil {
		logger.Error("OpenAI request failed", "error", err)
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

// StreamCompletion sends a streaming request and forwards delta content as
// chunks.
func (c *OpenAIClient) StreamCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (<-chan tutortypes.StreamChunk, error) {
	if err := c.initializeClientIfNeeded(); err != nil {
		return nil, err
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, c.buildParams(req))
	responseChan := make(chan tutortypes.StreamChunk, 10)

	go func() {
		defer close(responseChan)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				responseChan <- tutortypes.StreamChunk{Content: chunk.Choices[0].Delta.Content}
			}
		}

		if err := stream.Err(); err != nil {
			responseChan <- tutortypes.StreamChunk{Done: true, Error: err}
		} else {
			responseChan <- tutortypes.StreamChunk{Done: true}
		}
	}()

	return responseChan, nil
}

// buildParams converts the provider-neutral request to OpenAI parameters.
// Multi-part messages are flattened to their text parts.
func (c *OpenAIClient) buildParams(req *tutortypes.GenerationRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)

	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}

	for _, msg := range req.Messages {
		text := flattenText(msg)
		switch msg.Role {
		case tutortypes.RoleUser:
			messages = append(messages, openai.UserMessage(text))
		case tutortypes.RoleModel:
			messages = append(messages, openai.AssistantMessage(text))
		default:
			continue
		}
	}

	model := c.model
	if req.Model != "" {
		model = req.Model
	}

	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
}

// flattenText joins a message's text parts, dropping inline data.
func flattenText(msg tutortypes.Message) string {
	var text string
	for _, part := range msg.Parts {
		if part.InlineData != nil {
			continue
		}
		text += part.Text
	}
	return text
}
