package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	// DefaultBedrockRegion is the region used when none is configured
	DefaultBedrockRegion = "us-east-1"
	// DefaultBedrockModel is the model used when none is configured
	DefaultBedrockModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"
)

// bedrockInvoker is the part of the Bedrock runtime client this package uses
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockProvider implements the Provider interface for AWS Bedrock
type BedrockProvider struct {
	client bedrockInvoker
	model  string
	region string
}

// NewBedrockProvider creates a new AWS Bedrock provider. A positive timeout
// bounds every SDK HTTP call; zero keeps the SDK default.
func NewBedrockProvider(ctx context.Context, region, model string, timeout time.Duration) (*BedrockProvider, error) {
	if region == "" {
		region = DefaultBedrockRegion
	}
	if model == "" {
		model = DefaultBedrockModel
	}

	// Load AWS credentials from environment/IAM role
	cfg, err := config.LoadDefaultConfig(ctx, bedrockLoadOptions(region, timeout)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  model,
		region: region,
	}, nil
}

func bedrockLoadOptions(region string, timeout time.Duration) []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if client := bedrockHTTPClient(timeout); client != nil {
		opts = append(opts, config.WithHTTPClient(client))
	}
	return opts
}

// bedrockHTTPClient returns nil for a non-positive timeout
func bedrockHTTPClient(timeout time.Duration) *awshttp.BuildableClient {
	if timeout <= 0 {
		return nil
	}
	return awshttp.NewBuildableClient().WithTimeout(timeout)
}

// Name returns the provider name
func (p *BedrockProvider) Name() string {
	return fmt.Sprintf("AWS Bedrock (%s)", p.model)
}

// Bedrock request/response structures (using Claude's format on Bedrock)
type bedrockClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type bedrockClaudeRequest struct {
	Messages         []bedrockClaudeMessage `json:"messages"`
	MaxTokens        int                    `json:"max_tokens"`
	Temperature      float64                `json:"temperature"`
	AnthropicVersion string                 `json:"anthropic_version"`
}

type bedrockClaudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockClaudeResponse struct {
	ID      string                      `json:"id"`
	Type    string                      `json:"type"`
	Role    string                      `json:"role"`
	Content []bedrockClaudeContentBlock `json:"content"`
}

// GenerateClusters invokes a Claude model on Bedrock and returns its JSON answer
func (p *BedrockProvider) GenerateClusters(ctx context.Context, prompt string) (string, error) {
	reqBody := bedrockClaudeRequest{
		Messages: []bedrockClaudeMessage{
			{Role: "user", Content: prompt + jsonOnlyInstruction},
		},
		MaxTokens:        4096,
		Temperature:      0.0,
		AnthropicVersion: "bedrock-2023-05-31",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(p.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        jsonData,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Bedrock API: %w", err)
	}

	var bedrockResp bedrockClaudeResponse
	if err := json.Unmarshal(resp.Body, &bedrockResp); err != nil {
		return "", fmt.Errorf("failed to decode Bedrock response: %w", err)
	}

	var text strings.Builder
	for _, block := range bedrockResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return stripCodeFence(text.String()), nil
}
