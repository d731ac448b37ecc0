package types

import "fmt"

// Source is the support or social channel a feedback item came from
type Source string

const (
	SourceTwitter    Source = "Twitter"
	SourceIntercom   Source = "Intercom"
	SourceEmail      Source = "Email"
	SourceSalesForce Source = "SalesForce"
)

// Sentiment is the tone assigned to a feedback item
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// FeedbackItem represents a single user-submitted report
type FeedbackItem struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Content   string    `json:"content"`
	Source    Source    `json:"source"`
	Timestamp string    `json:"timestamp"` // Opaque, displayed as-is
	Sentiment Sentiment `json:"sentiment"`
}

// FeedbackSet is the on-disk format for a feedback seed file
type FeedbackSet struct {
	Items []FeedbackItem `json:"items"`
}

// Valid reports whether s is one of the known channels
func (s Source) Valid() bool {
	switch s {
	case SourceTwitter, SourceIntercom, SourceEmail, SourceSalesForce:
		return true
	}
	return false
}

// Valid reports whether s is one of the known sentiments
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Validate checks the fields that carry an enumeration or identity
func (f FeedbackItem) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("feedback item has empty id")
	}
	if !f.Source.Valid() {
		return fmt.Errorf("feedback item %s: unknown source %q", f.ID, f.Source)
	}
	if !f.Sentiment.Valid() {
		return fmt.Errorf("feedback item %s: unknown sentiment %q", f.ID, f.Sentiment)
	}
	return nil
}

// FeedbackIDs returns the ids of items in order
func FeedbackIDs(items []FeedbackItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
