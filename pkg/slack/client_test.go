package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/velocite/pkg/types"
)

var digestClusters = []types.InsightCluster{
	{ID: "cluster-2", Title: "API Latency Spikes", Description: "500s at peak", Severity: types.SeverityCritical, ImpactScore: 92, RelatedFeedbackIDs: []string{"3", "4"}, SuggestedAction: "Scale replicas"},
}

func TestIsConfigured(t *testing.T) {
	assert.False(t, NewClient("", "", "").IsConfigured())
	assert.True(t, NewClient("https://hooks.example", "", "").IsConfigured())
	assert.False(t, NewClient("", "xoxb", "").IsConfigured())
	assert.True(t, NewClient("", "xoxb", "C1").HasBotToken())
}

func TestBuildDigestMessage(t *testing.T) {
	msg := BuildDigestMessage(digestClusters, "Google Gemini (gemini-2.5-flash)", false)

	require.Len(t, msg.Blocks, 4)
	assert.Equal(t, "⚡ 1 Insight Clusters", msg.Blocks[0].Text.Text)
	assert.Equal(t, "Source: Google Gemini (gemini-2.5-flash)", msg.Blocks[1].Elements[0].Text)
	assert.Contains(t, msg.Blocks[3].Text.Text, "🔴 *API Latency Spikes*")
	assert.Equal(t, "*Impact:*\n92", msg.Blocks[3].Fields[1].Text)
}

func TestBuildDigestMessage_EmptyAndFallback(t *testing.T) {
	msg := BuildDigestMessage(nil, "mock", true)

	assert.Equal(t, "Source: mock (fallback demo data)", msg.Blocks[1].Elements[0].Text)
	assert.Equal(t, "_No insights found._", msg.Blocks[len(msg.Blocks)-1].Text.Text)
}

func TestSendInsightDigest_Webhook(t *testing.T) {
	var got types.SlackMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "")
	require.NoError(t, c.SendInsightDigest(context.Background(), digestClusters, "fake", false))
	assert.Equal(t, "1 insight clusters generated", got.Text)
	assert.Empty(t, got.Channel)
}

func TestDigestPayload_HasNoThreadFields(t *testing.T) {
	data, err := json.Marshal(BuildDigestMessage(digestClusters, "fake", false))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "thread_ts")
	assert.Contains(t, raw, "blocks")
}

func TestSendInsightDigest_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "", "")
	assert.Equal(t, DefaultTimeout, c.client.Timeout)

	c.SetTimeout(50 * time.Millisecond)
	c.SetTimeout(0)
	assert.Equal(t, 50*time.Millisecond, c.client.Timeout)

	start := time.Now()
	err := c.SendInsightDigest(context.Background(), digestClusters, "fake", false)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSendInsightDigest_Bot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer xoxb-test", r.Header.Get("Authorization"))
		var msg types.SlackMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "C123", msg.Channel)
		io.WriteString(w, `{"ok":true,"ts":"1700000000.000100","channel":"C123"}`)
	}))
	defer srv.Close()

	c := NewClient("", "xoxb-test", "C123")
	c.apiURL = srv.URL
	require.NoError(t, c.SendInsightDigest(context.Background(), digestClusters, "fake", false))
}

func TestSendInsightDigest_BotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	}))
	defer srv.Close()

	c := NewClient("", "xoxb-test", "C404")
	c.apiURL = srv.URL
	assert.EqualError(t, c.SendInsightDigest(context.Background(), digestClusters, "fake", false), "Slack error: channel_not_found")
}

func TestSendInsightDigest_NotConfigured(t *testing.T) {
	assert.NoError(t, NewClient("", "", "").SendInsightDigest(context.Background(), digestClusters, "fake", false))
}

func TestTruncateForSlack(t *testing.T) {
	assert.Equal(t, "short", truncateForSlack("short", 10))

	long := strings.Repeat("a", 20)
	assert.Equal(t, strings.Repeat("a", 10)+"…", truncateForSlack(long, 10))

	// "é" is two bytes; cutting inside it must not leave a broken rune
	assert.Equal(t, "aé…", truncateForSlack("aéé", 4))
}
