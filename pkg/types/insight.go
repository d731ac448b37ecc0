package types

// Severity ranks how urgent an insight cluster is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every severity in ascending order
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// InsightCluster groups feedback items sharing a theme, bug or feature request.
// Clusters are produced per generation and replaced wholesale; nothing checks
// that RelatedFeedbackIDs exist or that ImpactScore stays within 1-100.
type InsightCluster struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Severity           Severity `json:"severity"`
	ImpactScore        int      `json:"impactScore"`
	RelatedFeedbackIDs []string `json:"relatedFeedbackIds"`
	SuggestedAction    string   `json:"suggestedAction"`
}
