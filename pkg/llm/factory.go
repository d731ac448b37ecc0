package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Factory creates LLM providers based on configuration
type Factory struct {
	config Config
}

// NewFactory creates a new provider factory
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// CreateProvider creates the configured LLM provider. A provider whose
// credential is missing yields ErrNoCredential.
func (f *Factory) CreateProvider(ctx context.Context) (Provider, error) {
	httpClient := &http.Client{Timeout: f.config.Timeout}

	switch strings.ToLower(f.config.Provider) {
	case "gemini", "google", "":
		if f.config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini: %w", ErrNoCredential)
		}
		p, err := NewGeminiProvider(ctx, f.config.GeminiAPIKey, f.config.GeminiModel, f.config.GeminiBaseURL, httpClient)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "openai":
		if f.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai: %w", ErrNoCredential)
		}
		return NewOpenAIProvider(f.config.OpenAIAPIKey, f.config.OpenAIModel, f.config.OpenAIBaseURL, httpClient), nil

	case "anthropic", "claude":
		if f.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic: %w", ErrNoCredential)
		}
		return NewAnthropicProvider(f.config.AnthropicAPIKey, f.config.AnthropicModel, f.config.AnthropicBaseURL, httpClient), nil

	case "ollama":
		if f.config.OllamaURL == "" {
			return nil, fmt.Errorf("ollama URL not configured: %w", ErrNoCredential)
		}
		return NewOllamaProvider(f.config.OllamaURL, f.config.OllamaModel, httpClient), nil

	case "bedrock", "aws":
		p, err := NewBedrockProvider(ctx, f.config.BedrockRegion, f.config.BedrockModel, f.config.Timeout)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("%w: %s (supported: gemini, openai, anthropic, ollama, bedrock)", ErrUnknownProvider, f.config.Provider)
	}
}
