package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// WebhookClient implements the GenerationClient interface against a plain
// JSON question/answer endpoint. The response is decoded against an explicit
// schema with a documented priority order; payloads matching none of the
// shapes fail closed with tutortypes.ErrUnrecognizedResponse instead of
// being silently guessed at.
type WebhookClient struct {
	endpoint   string
	httpClient *http.Client
}

// webhookRequest is the request payload: the current question only.
type webhookRequest struct {
	Question string `json:"question"`
}

// webhookResponse covers the accepted response shapes. Priority order:
//  1. object with "excuse"
//  2. object with "output"
//  3. array whose first element has "output"
type webhookResponse struct {
	Excuse string `json:"excuse"`
	Output string `json:"output"`
}

// NewWebhookClient creates a webhook client for the given endpoint.
func NewWebhookClient(endpoint string) *WebhookClient {
	return &WebhookClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// GetProviderName returns the provider name for this client.
func (c *WebhookClient) GetProviderName() string {
	return "webhook"
}

// IsConfigured returns true if an endpoint is set.
func (c *WebhookClient) IsConfigured() bool {
	return c.endpoint != ""
}

// SendCompletion posts the final user message and decodes the answer.
// The webhook protocol is stateless: history and system instruction stay
// local, only the current question travels.
func (c *WebhookClient) SendCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("API key not valid: webhook endpoint not configured")
	}

	question := lastUserText(req)
	jsonData, err := json.Marshal(webhookRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	answer, err := decodeWebhookAnswer(body)
	if err != nil {
		logger.Error("Webhook response unrecognized", "body_length", len(body))
		return "", err
	}
	return answer, nil
}

// StreamCompletion returns the full completion as a single chunk followed by
// the completion signal; the webhook endpoint does not stream.
func (c *WebhookClient) StreamCompletion(ctx context.Context, req *tutortypes.GenerationRequest) (<-chan tutortypes.StreamChunk, error) {
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

// decodeWebhookAnswer applies the documented shape priority to the payload.
func decodeWebhookAnswer(body []byte) (string, error) {
	var obj webhookResponse
	if err := json.Unmarshal(body, &obj); err == nil {
		if obj.Excuse != "" {
			return obj.Excuse, nil
		}
		if obj.Output != "" {
			return obj.Output, nil
		}
	}

	var arr []webhookResponse
	if err := json.Unmarshal(body, &arr); err == nil && len(arr) > 0 && arr[0].Output != "" {
		return arr[0].Output, nil
	}

	return "", tutortypes.ErrUnrecognizedResponse
}

// lastUserText returns the text of the final user message in the request.
func lastUserText(req *tutortypes.GenerationRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == tutortypes.RoleUser {
			return flattenText(req.Messages[i])
		}
	}
	return ""
}
