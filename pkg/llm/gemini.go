package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements the Provider interface for Google's Gemini models
// using structured output (responseMimeType + responseSchema).
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider. baseURL may be empty.
func NewGeminiProvider(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return fmt.Sprintf("Google Gemini (%s)", p.model)
}

// GenerateClusters asks Gemini for a JSON array matching the cluster schema
func (p *GeminiProvider) GenerateClusters(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   clusterGenAISchema(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	return resp.Text(), nil
}
