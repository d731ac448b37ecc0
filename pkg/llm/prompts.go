package llm

import (
	"fmt"
	"strings"

	"github.com/valentinpelus/velocite/pkg/types"
)

// DefaultClusterPromptTemplate is the default prompt template
// Variables available: {FEEDBACK_DATA}
const DefaultClusterPromptTemplate = `
Analyze the following product feedback items.
Group them into distinct "Insight Clusters" based on common themes, bugs, or feature requests.
For each cluster, determine the severity, an impact score (1-100), and a suggested action for the engineering team.

Feedback Data:
{FEEDBACK_DATA}
`

// jsonOnlyInstruction is appended for providers without native structured output
const jsonOnlyInstruction = `
Respond with ONLY a JSON array, no prose and no markdown. Each element must be an object with:
"title" (string), "description" (string), "severity" (one of "low", "medium", "high", "critical"),
"impactScore" (integer 1-100), "relatedFeedbackIds" (array of feedback ID strings), "suggestedAction" (string).`

// ClusterPromptTemplate returns custom, or the default template when custom is blank
func ClusterPromptTemplate(custom string) string {
	if strings.TrimSpace(custom) != "" {
		return custom
	}
	return DefaultClusterPromptTemplate
}

// FormatFeedback renders one line per item: "- [source] content (ID: id)"
func FormatFeedback(items []types.FeedbackItem) string {
	lines := make([]string, 0, len(items))
	for _, f := range items {
		lines = append(lines, fmt.Sprintf("- [%s] %s (ID: %s)", f.Source, f.Content, f.ID))
	}
	return strings.Join(lines, "\n")
}

// BuildClusterPrompt creates the clustering prompt shared across all providers.
// An empty template selects DefaultClusterPromptTemplate.
func BuildClusterPrompt(template string, items []types.FeedbackItem) string {
	return strings.ReplaceAll(ClusterPromptTemplate(template), "{FEEDBACK_DATA}", FormatFeedback(items))
}
