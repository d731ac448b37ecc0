package llm

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoCredential means the selected provider has nothing to authenticate
	// with. Callers treat it as the degraded (mock) mode, not a failure.
	ErrNoCredential = errors.New("no LLM credential configured")

	// ErrUnknownProvider is returned by the factory for an unsupported name
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// Provider defines the interface for LLM providers (Gemini, OpenAI, Claude, Ollama, Bedrock)
type Provider interface {
	// GenerateClusters sends the prompt and returns the raw JSON text of an
	// array of insight clusters. An empty string means the model answered
	// with no content.
	GenerateClusters(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name (for logging)
	Name() string
}

// Config holds common configuration for LLM providers
type Config struct {
	Provider string // "gemini", "openai", "anthropic", "ollama", "bedrock"

	// Timeout bounds every provider HTTP call; zero keeps the transport default
	Timeout time.Duration

	// Gemini-specific
	GeminiAPIKey  string
	GeminiModel   string // e.g., "gemini-2.5-flash"
	GeminiBaseURL string // override for proxies and tests

	// OpenAI-specific
	OpenAIAPIKey  string
	OpenAIModel   string // e.g., "gpt-4o-mini"
	OpenAIBaseURL string

	// Anthropic-specific
	AnthropicAPIKey  string
	AnthropicModel   string // e.g., "claude-3-5-sonnet-20241022"
	AnthropicBaseURL string

	// Ollama-specific
	OllamaURL   string
	OllamaModel string

	// AWS Bedrock-specific
	BedrockRegion string // e.g., "us-east-1", "us-west-2"
	BedrockModel  string // e.g., "anthropic.claude-3-5-sonnet-20241022-v2:0"
}
