package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valentinpelus/velocite/pkg/llm"
)

// Config holds all application configuration
type Config struct {
	Port     string
	LogLevel string // "debug", "info", "warn", "error"

	LLMProvider string // "gemini", "openai", "anthropic", "ollama", "bedrock"
	LLMTimeout  time.Duration

	// ClusterPromptTemplate overrides the clustering prompt; must contain {FEEDBACK_DATA}
	ClusterPromptTemplate string

	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	OllamaURL        string
	OllamaModel      string
	BedrockRegion    string
	BedrockModel     string

	APIAuthToken string

	// Feedback seed: file wins over database, both fall back to the built-in feed
	FeedbackFile        string
	FeedbackDatabaseURL string
	FeedbackTable       string

	AnalyzeDelay    time.Duration
	ShutdownTimeout time.Duration

	SlackWebhookURL string
	SlackBotToken   string
	SlackChannelID  string
	SlackTimeout    time.Duration // bounds each digest post
}

// setDefaults registers every key so AutomaticEnv can find it
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("llm_provider", "gemini")
	v.SetDefault("llm_timeout", time.Duration(0))
	v.SetDefault("cluster_prompt_template", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", llm.DefaultGeminiModel)
	v.SetDefault("gemini_base_url", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", llm.DefaultOpenAIModel)
	v.SetDefault("openai_base_url", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("anthropic_model", llm.DefaultAnthropicModel)
	v.SetDefault("anthropic_base_url", "")
	v.SetDefault("ollama_url", "")
	v.SetDefault("ollama_model", llm.DefaultOllamaModel)
	v.SetDefault("bedrock_region", llm.DefaultBedrockRegion)
	v.SetDefault("bedrock_model", llm.DefaultBedrockModel)
	v.SetDefault("api_auth_token", "")
	v.SetDefault("feedback_file", "")
	v.SetDefault("feedback_database_url", "")
	v.SetDefault("feedback_table", "feedback_items")
	v.SetDefault("analyze_delay", 800*time.Millisecond)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("slack_webhook_url", "")
	v.SetDefault("slack_bot_token", "")
	v.SetDefault("slack_channel_id", "")
	v.SetDefault("slack_timeout", 10*time.Second)
}

// LoadConfig loads configuration from environment variables and, when
// configFile is set, a YAML file. Environment variables win over the file.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// API_KEY is the credential name the original dashboard used
	if err := v.BindEnv("gemini_api_key", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("binding gemini_api_key: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Port:                  v.GetString("port"),
		LogLevel:              v.GetString("log_level"),
		LLMProvider:           strings.ToLower(v.GetString("llm_provider")),
		LLMTimeout:            v.GetDuration("llm_timeout"),
		ClusterPromptTemplate: v.GetString("cluster_prompt_template"),
		GeminiAPIKey:          v.GetString("gemini_api_key"),
		GeminiModel:           v.GetString("gemini_model"),
		GeminiBaseURL:         v.GetString("gemini_base_url"),
		OpenAIAPIKey:          v.GetString("openai_api_key"),
		OpenAIModel:           v.GetString("openai_model"),
		OpenAIBaseURL:         v.GetString("openai_base_url"),
		AnthropicAPIKey:       v.GetString("anthropic_api_key"),
		AnthropicModel:        v.GetString("anthropic_model"),
		AnthropicBaseURL:      v.GetString("anthropic_base_url"),
		OllamaURL:             v.GetString("ollama_url"),
		OllamaModel:           v.GetString("ollama_model"),
		BedrockRegion:         v.GetString("bedrock_region"),
		BedrockModel:          v.GetString("bedrock_model"),
		APIAuthToken:          v.GetString("api_auth_token"),
		FeedbackFile:          v.GetString("feedback_file"),
		FeedbackDatabaseURL:   v.GetString("feedback_database_url"),
		FeedbackTable:         v.GetString("feedback_table"),
		AnalyzeDelay:          v.GetDuration("analyze_delay"),
		ShutdownTimeout:       v.GetDuration("shutdown_timeout"),
		SlackWebhookURL:       v.GetString("slack_webhook_url"),
		SlackBotToken:         v.GetString("slack_bot_token"),
		SlackChannelID:        v.GetString("slack_channel_id"),
		SlackTimeout:          v.GetDuration("slack_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that cannot work at all
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("llm_timeout must not be negative")
	}
	if c.SlackTimeout <= 0 {
		return fmt.Errorf("slack_timeout must be positive")
	}
	if c.ClusterPromptTemplate != "" && !strings.Contains(c.ClusterPromptTemplate, "{FEEDBACK_DATA}") {
		return fmt.Errorf("cluster_prompt_template must contain {FEEDBACK_DATA}")
	}
	if c.AnalyzeDelay < 0 {
		return fmt.Errorf("analyze_delay must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// LLMConfig returns the provider settings
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider:         c.LLMProvider,
		Timeout:          c.LLMTimeout,
		GeminiAPIKey:     c.GeminiAPIKey,
		GeminiModel:      c.GeminiModel,
		GeminiBaseURL:    c.GeminiBaseURL,
		OpenAIAPIKey:     c.OpenAIAPIKey,
		OpenAIModel:      c.OpenAIModel,
		OpenAIBaseURL:    c.OpenAIBaseURL,
		AnthropicAPIKey:  c.AnthropicAPIKey,
		AnthropicModel:   c.AnthropicModel,
		AnthropicBaseURL: c.AnthropicBaseURL,
		OllamaURL:        c.OllamaURL,
		OllamaModel:      c.OllamaModel,
		BedrockRegion:    c.BedrockRegion,
		BedrockModel:     c.BedrockModel,
	}
}
