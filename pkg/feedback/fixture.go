package feedback

import "github.com/valentinpelus/velocite/pkg/types"

// DefaultItems is the built-in demo feed shown when no seed source is configured
var DefaultItems = []types.FeedbackItem{
	{ID: "1", User: "alex@startup.com", Content: "The dashboard takes 5 seconds to load on mobile.", Source: types.SourceIntercom, Timestamp: "2023-10-25", Sentiment: types.SentimentNegative},
	{ID: "2", User: "sarah@bigcorp.co", Content: "Can we get an export to CSV feature?", Source: types.SourceEmail, Timestamp: "2023-10-26", Sentiment: types.SentimentNeutral},
	{ID: "3", User: "mike@dev.io", Content: "Dark mode is broken on the settings page, text is black on black.", Source: types.SourceTwitter, Timestamp: "2023-10-26", Sentiment: types.SentimentNegative},
	{ID: "4", User: "jess@design.net", Content: "I really love the new collaborative editing mode!", Source: types.SourceSalesForce, Timestamp: "2023-10-27", Sentiment: types.SentimentPositive},
	{ID: "5", User: "cto@scale.ai", Content: "We need SSO before we can expand to the rest of the team.", Source: types.SourceEmail, Timestamp: "2023-10-27", Sentiment: types.SentimentNeutral},
	{ID: "6", User: "anon@user.com", Content: "Mobile view is extremely laggy.", Source: types.SourceIntercom, Timestamp: "2023-10-27", Sentiment: types.SentimentNegative},
}
