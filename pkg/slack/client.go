package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/valentinpelus/velocite/pkg/types"
)

const (
	defaultAPIURL = "https://slack.com/api/chat.postMessage"

	// DefaultTimeout bounds each Slack request
	DefaultTimeout = 10 * time.Second
)

// severityEmoji decorates cluster severities in digests
var severityEmoji = map[types.Severity]string{
	types.SeverityLow:      "🔵",
	types.SeverityMedium:   "🟡",
	types.SeverityHigh:     "🟠",
	types.SeverityCritical: "🔴",
}

// Client wraps the Slack API client
type Client struct {
	webhookURL string
	botToken   string
	channelID  string
	apiURL     string
	client     *http.Client
}

// NewClient creates a new Slack client
func NewClient(webhookURL, botToken, channelID string) *Client {
	return &Client{
		webhookURL: webhookURL,
		botToken:   botToken,
		channelID:  channelID,
		apiURL:     defaultAPIURL,
		client:     &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout replaces the per-request timeout; non-positive values are ignored
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.client.Timeout = timeout
	}
}

// IsConfigured checks if Slack notifications are configured
func (c *Client) IsConfigured() bool {
	return c.webhookURL != "" || c.HasBotToken()
}

// HasBotToken checks if a Bot token and channel are configured
func (c *Client) HasBotToken() bool {
	return c.botToken != "" && c.channelID != ""
}

// SendInsightDigest posts a summary of freshly generated clusters.
// providerName and fallback are shown in the context line.
func (c *Client) SendInsightDigest(ctx context.Context, clusters []types.InsightCluster, providerName string, fallback bool) error {
	message := BuildDigestMessage(clusters, providerName, fallback)

	if c.HasBotToken() {
		message.Channel = c.channelID
		return c.postMessage(ctx, message)
	}
	if c.webhookURL != "" {
		return c.postWebhook(ctx, message)
	}
	return nil
}

// BuildDigestMessage creates a Block Kit message listing each cluster
func BuildDigestMessage(clusters []types.InsightCluster, providerName string, fallback bool) types.SlackMessage {
	source := providerName
	if fallback {
		source += " (fallback demo data)"
	}

	message := types.SlackMessage{
		Text:        fmt.Sprintf("%d insight clusters generated", len(clusters)),
		UnfurlLinks: false,
		Blocks: []types.SlackBlock{
			{
				Type: "header",
				Text: &types.SlackTextObject{
					Type: "plain_text",
					Text: fmt.Sprintf("⚡ %d Insight Clusters", len(clusters)),
				},
			},
			{
				Type: "context",
				Elements: []types.SlackTextObject{
					{Type: "mrkdwn", Text: fmt.Sprintf("Source: %s", source)},
				},
			},
			{Type: "divider"},
		},
	}

	if len(clusters) == 0 {
		message.Blocks = append(message.Blocks, types.SlackBlock{
			Type: "section",
			Text: &types.SlackTextObject{Type: "mrkdwn", Text: "_No insights found._"},
		})
		return message
	}

	for _, cluster := range clusters {
		message.Blocks = append(message.Blocks, types.SlackBlock{
			Type: "section",
			Text: &types.SlackTextObject{
				Type: "mrkdwn",
				Text: truncateForSlack(fmt.Sprintf("%s *%s*\n%s\n*Action:* %s",
					severityEmoji[cluster.Severity], cluster.Title, cluster.Description, cluster.SuggestedAction), 2900),
			},
			Fields: []types.SlackTextObject{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Severity:*\n%s", cluster.Severity)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Impact:*\n%d", cluster.ImpactScore)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Related items:*\n%d", len(cluster.RelatedFeedbackIDs))},
			},
		})
	}

	return message
}

// postWebhook sends a message using a Slack incoming webhook
func (c *Client) postWebhook(ctx context.Context, message types.SlackMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send to Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Slack API returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// postMessage sends a message using the Slack chat.postMessage API
// Reference: https://api.slack.com/methods/chat.postMessage
func (c *Client) postMessage(ctx context.Context, message types.SlackMessage) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.botToken))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send to Slack: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var slackResp types.SlackResponse
	if err := json.Unmarshal(body, &slackResp); err != nil {
		return fmt.Errorf("failed to parse Slack response: %w", err)
	}

	if !slackResp.OK {
		return fmt.Errorf("Slack error: %s", slackResp.Error)
	}

	return nil
}

// truncateForSlack keeps text under Slack's per-block limit
func truncateForSlack(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	// avoid splitting a multi-byte rune
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimSpace(cut) + "…"
}
