package llm

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"coddify/internal/config"
	"coddify/internal/logger"
	"coddify/pkg/tutortypes"
)

// ClientFactory manages the creation and caching of generation clients.
// Clients are cached per provider so lazy SDK initialization happens once.
type ClientFactory struct {
	cfg     config.ProviderConfig
	clients map[string]tutortypes.GenerationClient
	mutex   sync.RWMutex
	log     *log.Logger
}

// NewClientFactory creates a factory over the given provider configuration.
func NewClientFactory(cfg config.ProviderConfig) *ClientFactory {
	return &ClientFactory{
		cfg:     cfg,
		clients: make(map[string]tutortypes.GenerationClient),
		log:     logger.NewStyledLogger("Provider"),
	}
}

// GetClient returns the client for the configured default provider.
func (f *ClientFactory) GetClient() (tutortypes.GenerationClient, error) {
	return f.GetClientForProvider(f.cfg.Name)
}

// GetClientForProvider returns a generation client for the specified
// provider, creating and caching it on first use.
func (f *ClientFactory) GetClientForProvider(provider string) (tutortypes.GenerationClient, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	f.mutex.RLock()
	if client, exists := f.clients[provider]; exists {
		f.mutex.RUnlock()
		f.log.Debug("Returning cached provider client", "provider", provider)
		return client, nil
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Double-check pattern
	if client, exists := f.clients[provider]; exists {
		return client, nil
	}

	var client tutortypes.GenerationClient
	switch provider {
	case "gemini":
		client = NewGeminiClient(f.cfg.GeminiAPIKey, f.cfg.Model)
	case "openai":
		client = NewOpenAIClient(f.cfg.OpenAIAPIKey, f.cfg.Model)
	case "anthropic":
		client = NewAnthropicClient(f.cfg.AnthropicAPIKey, f.cfg.Model)
	case "webhook":
		client = NewWebhookClient(f.cfg.WebhookEndpoint)
	default:
		return nil, fmt.Errorf("unsupported provider '%s'. Supported providers: gemini, openai, anthropic, webhook", provider)
	}

	f.clients[provider] = client
	f.log.Debug("Created new provider client", "provider", provider)
	return client, nil
}
