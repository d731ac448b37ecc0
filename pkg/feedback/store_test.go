package feedback

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/velocite/pkg/types"
)

func TestNewDefaultStore(t *testing.T) {
	s := NewDefaultStore()
	require.Equal(t, 6, s.Len())

	items := s.All()
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, types.FeedbackIDs(items))
	assert.Equal(t, types.SourceIntercom, items[0].Source)
}

func TestAll_ReturnsCopy(t *testing.T) {
	s := NewDefaultStore()

	items := s.All()
	items[0].Content = "changed"

	again := s.All()
	assert.Equal(t, "The dashboard takes 5 seconds to load on mobile.", again[0].Content)
}

func TestNewStore_Validation(t *testing.T) {
	valid := types.FeedbackItem{ID: "a", Source: types.SourceEmail, Sentiment: types.SentimentNeutral}

	tests := []struct {
		name  string
		items []types.FeedbackItem
	}{
		{"empty id", []types.FeedbackItem{{Source: types.SourceEmail, Sentiment: types.SentimentNeutral}}},
		{"bad source", []types.FeedbackItem{{ID: "a", Source: "Fax", Sentiment: types.SentimentNeutral}}},
		{"bad sentiment", []types.FeedbackItem{{ID: "a", Source: types.SourceEmail, Sentiment: "angry"}}},
		{"duplicate id", []types.FeedbackItem{valid, valid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.items)
			assert.Error(t, err)
		})
	}
}

func TestNewStore_Empty(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.All())
}

func TestGet(t *testing.T) {
	s := NewDefaultStore()

	item, ok := s.Get("5")
	require.True(t, ok)
	assert.Equal(t, "cto@scale.ai", item.User)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestGetStats(t *testing.T) {
	stats := NewDefaultStore().GetStats()

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.BySource[types.SourceIntercom])
	assert.Equal(t, 2, stats.BySource[types.SourceEmail])
	assert.Equal(t, 1, stats.BySource[types.SourceTwitter])
	assert.Equal(t, 1, stats.BySource[types.SourceSalesForce])
	assert.Equal(t, 3, stats.BySentiment[types.SentimentNegative])
	assert.Equal(t, 2, stats.BySentiment[types.SentimentNeutral])
	assert.Equal(t, 1, stats.BySentiment[types.SentimentPositive])
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feedback.json")
	data := `{"items":[
		{"id":"x1","user":"a@b.c","content":"Export is slow","source":"Email","timestamp":"2024-01-01","sentiment":"negative"},
		{"id":"x2","user":"d@e.f","content":"Nice update","source":"Twitter","timestamp":"2024-01-02","sentiment":"positive"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, types.FeedbackIDs(s.All()))
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadPostgres_RequiresURL(t *testing.T) {
	_, err := LoadPostgres(context.Background(), PostgresConfig{})
	assert.EqualError(t, err, "database URL is required")
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"feedback_items"`, quoteIdent("feedback_items"))
	assert.Equal(t, `"app"."feedback"`, quoteIdent("app.feedback"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}
